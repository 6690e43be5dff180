package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	partnerNotFoundMsg = "partner not found"
	faqNotFoundMsg     = "faq entry not found"
	caseNotFoundMsg    = "customer case not found"

	caseSlugConstraint = "customer_cases_slug_key"
)

type Partner struct {
	ID          uuid.UUID
	Name        string
	WebsiteURL  string
	Description string
	LogoKey     *string
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type FAQEntry struct {
	ID          uuid.UUID
	Question    string
	Answer      string
	Category    string
	IsPublished bool
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CustomerCase struct {
	ID          uuid.UUID
	Title       string
	Slug        string
	ClientName  string
	Summary     string
	Body        string
	ImageKey    *string
	IsPublished bool
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type PartnerRepository interface {
	ListPartners(ctx context.Context) ([]Partner, error)
	GetPartner(ctx context.Context, id uuid.UUID) (Partner, error)
	CreatePartner(ctx context.Context, p Partner) (Partner, error)
	UpdatePartner(ctx context.Context, p Partner) (Partner, error)
	// SetPartnerLogo replaces the logo key and returns the previous one.
	SetPartnerLogo(ctx context.Context, id uuid.UUID, key *string) (*string, error)
	// DeletePartner returns the deleted row so its logo can be removed from storage.
	DeletePartner(ctx context.Context, id uuid.UUID) (Partner, error)
}

type FAQRepository interface {
	ListFAQ(ctx context.Context, publishedOnly bool) ([]FAQEntry, error)
	GetFAQ(ctx context.Context, id uuid.UUID) (FAQEntry, error)
	CreateFAQ(ctx context.Context, e FAQEntry) (FAQEntry, error)
	UpdateFAQ(ctx context.Context, e FAQEntry) (FAQEntry, error)
	DeleteFAQ(ctx context.Context, id uuid.UUID) error
}

type CaseRepository interface {
	ListCases(ctx context.Context, publishedOnly bool) ([]CustomerCase, error)
	GetCase(ctx context.Context, id uuid.UUID) (CustomerCase, error)
	GetCaseBySlug(ctx context.Context, slug string) (CustomerCase, error)
	CreateCase(ctx context.Context, c CustomerCase) (CustomerCase, error)
	UpdateCase(ctx context.Context, c CustomerCase) (CustomerCase, error)
	SetCaseImage(ctx context.Context, id uuid.UUID, key *string) (*string, error)
	DeleteCase(ctx context.Context, id uuid.UUID) (CustomerCase, error)
}

// Repository groups the content tables managed from the dashboard.
type Repository interface {
	PartnerRepository
	FAQRepository
	CaseRepository
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new content repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)
