package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/leaseledger/backend/internal/domain/leasing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LeaseModel is the persistence model for the Lease aggregate.
type LeaseModel struct {
	AggregateModel
	AgentID           uuid.UUID              `gorm:"type:uuid;not null;index"`
	InvoiceNumber     string                 `gorm:"type:varchar(100);not null;uniqueIndex"`
	Complex           string                 `gorm:"type:varchar(200);not null"`
	ApartmentNumber   string                 `gorm:"type:varchar(50);not null"`
	TenantFname       string                 `gorm:"type:varchar(100);not null"`
	TenantLname       string                 `gorm:"type:varchar(100);not null"`
	TenantEmail       string                 `gorm:"type:varchar(200)"`
	RentAmount        decimal.Decimal        `gorm:"type:decimal(12,2);not null"`
	CommissionType    leasing.CommissionType `gorm:"type:varchar(20);not null"`
	CommissionPercent *decimal.Decimal       `gorm:"type:decimal(5,2)"`
	Commission        decimal.Decimal        `gorm:"type:decimal(12,2);not null"`
	MoveInDate        time.Time              `gorm:"not null;index"`
	ExtraNotes        string                 `gorm:"type:text"`
	BalancePaid       decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0"`
	BalanceDue        decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0"`
	PaidStatus        leasing.PaidStatus     `gorm:"type:varchar(20);not null;default:'unpaid';index"`
	DeletedAt         gorm.DeletedAt         `gorm:"index"`
}

// TableName returns the table name for GORM
func (LeaseModel) TableName() string {
	return "leases"
}

// ToDomain converts the persistence model to a domain Lease aggregate.
func (m *LeaseModel) ToDomain() *leasing.Lease {
	lease := &leasing.Lease{
		AgentID:           m.AgentID,
		InvoiceNumber:     m.InvoiceNumber,
		Complex:           m.Complex,
		ApartmentNumber:   m.ApartmentNumber,
		TenantFname:       m.TenantFname,
		TenantLname:       m.TenantLname,
		TenantEmail:       m.TenantEmail,
		RentAmount:        m.RentAmount,
		CommissionType:    m.CommissionType,
		CommissionPercent: m.CommissionPercent,
		Commission:        m.Commission,
		MoveInDate:        m.MoveInDate,
		ExtraNotes:        m.ExtraNotes,
		BalancePaid:       m.BalancePaid,
		BalanceDue:        m.BalanceDue,
		PaidStatus:        m.PaidStatus,
	}
	m.PopulateAggregateRoot(&lease.BaseAggregateRoot)
	return lease
}

// FromDomain populates the persistence model from a domain Lease aggregate.
func (m *LeaseModel) FromDomain(l *leasing.Lease) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.AgentID = l.AgentID
	m.InvoiceNumber = l.InvoiceNumber
	m.Complex = l.Complex
	m.ApartmentNumber = l.ApartmentNumber
	m.TenantFname = l.TenantFname
	m.TenantLname = l.TenantLname
	m.TenantEmail = l.TenantEmail
	m.RentAmount = l.RentAmount
	m.CommissionType = l.CommissionType
	m.CommissionPercent = l.CommissionPercent
	m.Commission = l.Commission
	m.MoveInDate = l.MoveInDate
	m.ExtraNotes = l.ExtraNotes
	m.BalancePaid = l.BalancePaid
	m.BalanceDue = l.BalanceDue
	m.PaidStatus = l.PaidStatus
}

// LeaseModelFromDomain creates a new persistence model from a domain Lease.
func LeaseModelFromDomain(l *leasing.Lease) *LeaseModel {
	m := &LeaseModel{}
	m.FromDomain(l)
	return m
}

// PaymentEntryModel is the persistence model for the PaymentEntry entity.
type PaymentEntryModel struct {
	BaseModel
	LeaseID uuid.UUID           `gorm:"type:uuid;not null;index"`
	Type    leasing.PaymentType `gorm:"type:varchar(20);not null"`
	Amount  decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Payout  decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Date    time.Time           `gorm:"not null;index"`
	Notes   string              `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PaymentEntryModel) TableName() string {
	return "payment_entries"
}

// ToDomain converts the persistence model to a domain PaymentEntry.
func (m *PaymentEntryModel) ToDomain() leasing.PaymentEntry {
	return leasing.PaymentEntry{
		BaseEntity: m.BaseModel.ToDomain(),
		LeaseID:    m.LeaseID,
		Type:       m.Type,
		Amount:     m.Amount,
		Payout:     m.Payout,
		Date:       m.Date,
		Notes:      m.Notes,
	}
}

// FromDomain populates the persistence model from a domain PaymentEntry.
func (m *PaymentEntryModel) FromDomain(e *leasing.PaymentEntry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.LeaseID = e.LeaseID
	m.Type = e.Type
	m.Amount = e.Amount
	m.Payout = e.Payout
	m.Date = e.Date
	m.Notes = e.Notes
}

// PaymentEntryModelFromDomain creates a new persistence model from a domain PaymentEntry.
func PaymentEntryModelFromDomain(e *leasing.PaymentEntry) *PaymentEntryModel {
	m := &PaymentEntryModel{}
	m.FromDomain(e)
	return m
}

// AgentDrawModel is the persistence model for the AgentDraw entity.
type AgentDrawModel struct {
	BaseModel
	AgentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date    time.Time       `gorm:"not null;index"`
	Notes   string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (AgentDrawModel) TableName() string {
	return "agent_draws"
}

// ToDomain converts the persistence model to a domain AgentDraw.
func (m *AgentDrawModel) ToDomain() leasing.AgentDraw {
	return leasing.AgentDraw{
		BaseEntity: m.BaseModel.ToDomain(),
		AgentID:    m.AgentID,
		Amount:     m.Amount,
		Date:       m.Date,
		Notes:      m.Notes,
	}
}

// FromDomain populates the persistence model from a domain AgentDraw.
func (m *AgentDrawModel) FromDomain(d *leasing.AgentDraw) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.AgentID = d.AgentID
	m.Amount = d.Amount
	m.Date = d.Date
	m.Notes = d.Notes
}

// AgentDrawModelFromDomain creates a new persistence model from a domain AgentDraw.
func AgentDrawModelFromDomain(d *leasing.AgentDraw) *AgentDrawModel {
	m := &AgentDrawModel{}
	m.FromDomain(d)
	return m
}
