// Package models contains the GORM persistence models backing the
// domain entities. Keeping them separate leaves the domain layer free
// of ORM tags; repositories map between the two representations.
//
// base.go holds the shared BaseModel and AggregateModel, identity.go
// the User model, and leasing.go the Lease, PaymentEntry and AgentDraw
// models.
package models
