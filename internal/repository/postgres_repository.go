package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/farmaid/farmaid-server/internal/apperrors"
	"github.com/farmaid/farmaid-server/internal/lifecycle"
	"github.com/farmaid/farmaid-server/internal/models"
)

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	SetLoggedIn(ctx context.Context, userID string, loggedIn bool) error
	ListFarmers(ctx context.Context) ([]models.User, error)

	// Resource creation (status defaults to available, requested_by to null)
	CreateLand(ctx context.Context, land *models.Land) error
	CreateLoan(ctx context.Context, loan *models.Loan) error
	CreatePesticide(ctx context.Context, pesticide *models.Pesticide) error
	CreateInstrument(ctx context.Context, instrument *models.Instrument) error

	// Lifecycle transitions (the only write path for status/requested_by)
	RequestResource(ctx context.Context, kind lifecycle.Kind, resourceID, requesterID string) error
	AcceptRequest(ctx context.Context, kind lifecycle.Kind, resourceID string) error
	RejectRequest(ctx context.Context, kind lifecycle.Kind, resourceID string) error

	// Land views
	AvailableLands(ctx context.Context) ([]models.LandWithProvider, error)
	LandsByOwner(ctx context.Context, ownerID string) ([]models.Land, error)
	LandRequests(ctx context.Context, ownerID string) ([]models.LandWithRequester, error)
	RentedLands(ctx context.Context, ownerID string) ([]models.LandWithRequester, error)
	LandRentals(ctx context.Context, farmerID string) ([]models.LandWithProvider, error)

	// Loan views
	AvailableLoans(ctx context.Context) ([]models.LoanWithProvider, error)
	LoansByBank(ctx context.Context, bankID string) ([]models.Loan, error)
	LoanRequests(ctx context.Context, bankID string) ([]models.LoanWithRequester, error)
	ApprovedLoans(ctx context.Context, bankID string) ([]models.LoanWithRequester, error)
	LoanRentals(ctx context.Context, farmerID string) ([]models.LoanWithProvider, error)

	// Pesticide views
	AvailablePesticides(ctx context.Context) ([]models.PesticideWithProvider, error)
	PesticidesByStore(ctx context.Context, storeID string) ([]models.Pesticide, error)
	PesticideRequests(ctx context.Context, storeID string) ([]models.PesticideWithRequester, error)
	SoldPesticides(ctx context.Context, storeID string) ([]models.PesticideWithRequester, error)
	PesticideRentals(ctx context.Context, farmerID string) ([]models.PesticideWithProvider, error)

	// Instrument views
	AvailableInstruments(ctx context.Context) ([]models.InstrumentWithProvider, error)
	InstrumentsByOwner(ctx context.Context, ownerID string) ([]models.Instrument, error)
	InstrumentRequests(ctx context.Context, ownerID string) ([]models.InstrumentWithRequester, error)
	RentedInstruments(ctx context.Context, ownerID string) ([]models.InstrumentWithRequester, error)
	InstrumentRentals(ctx context.Context, farmerID string) ([]models.InstrumentWithProvider, error)

	// Shared project operations
	CreateProject(ctx context.Context, project *models.SharedProject) error
	CreateInvite(ctx context.Context, invite *models.ProjectInvite) error
	ProjectsForFarmer(ctx context.Context, farmerID string) ([]models.SharedProject, error)
	PendingInvitesForFarmer(ctx context.Context, farmerID string) ([]models.ProjectInviteDetail, error)
	RespondToInvite(ctx context.Context, inviteID, status string) error
}

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db     *sqlx.DB
	engine *lifecycle.Engine
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db:     db,
		engine: lifecycle.NewEngine(db),
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

// classifyWriteError maps constraint violations onto the error taxonomy.
// A foreign key violation means the caller referenced a user or project
// that does not exist; a unique violation means a duplicate natural key.
func classifyWriteError(err error, fkMessage, uniqueMessage string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23503": // foreign_key_violation
			return apperrors.Validation(fkMessage)
		case "23505": // unique_violation
			return apperrors.Validation(uniqueMessage)
		}
	}
	return err
}

// User repository methods
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	query := `
		INSERT INTO users (id, name, email, phone, password, role, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.Phone, user.Password, user.Role, user.Address)
	if err != nil {
		return classifyWriteError(err,
			"invalid user reference",
			"user already exists with this email")
	}

	return nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT * FROM users WHERE email = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT * FROM users WHERE id = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) SetLoggedIn(ctx context.Context, userID string, loggedIn bool) error {
	query := `UPDATE users SET is_logged_in = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, loggedIn, userID)
	if err != nil {
		return fmt.Errorf("error updating login status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFound("user not found")
	}

	return nil
}

func (r *PostgresRepository) ListFarmers(ctx context.Context) ([]models.User, error) {
	query := `SELECT * FROM users WHERE role = $1`

	var farmers []models.User
	if err := r.db.SelectContext(ctx, &farmers, query, models.RoleFarmer); err != nil {
		return nil, err
	}

	return farmers, nil
}

// Resource creation methods. Each insert leaves status and requested_by at
// their defaults; only the lifecycle engine touches those columns later.
func (r *PostgresRepository) CreateLand(ctx context.Context, land *models.Land) error {
	if land.ID == "" {
		land.ID = uuid.New().String()
	}
	land.Status = lifecycle.StatusAvailable

	query := `
		INSERT INTO lands (id, owner_id, title, location, size, interest_rate)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		land.ID, land.OwnerID, land.Title, land.Location, land.Size, land.InterestRate)
	if err != nil {
		return classifyWriteError(err, "owner does not exist", "duplicate land id")
	}

	return nil
}

func (r *PostgresRepository) CreateLoan(ctx context.Context, loan *models.Loan) error {
	if loan.ID == "" {
		loan.ID = uuid.New().String()
	}
	loan.Status = lifecycle.StatusAvailable

	query := `
		INSERT INTO loans (id, bank_id, title, amount, interest_rate, duration)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID, loan.BankID, loan.Title, loan.Amount, loan.InterestRate, loan.Duration)
	if err != nil {
		return classifyWriteError(err, "bank does not exist", "duplicate loan id")
	}

	return nil
}

func (r *PostgresRepository) CreatePesticide(ctx context.Context, pesticide *models.Pesticide) error {
	if pesticide.ID == "" {
		pesticide.ID = uuid.New().String()
	}
	pesticide.Status = lifecycle.StatusAvailable

	query := `
		INSERT INTO pesticides (id, store_id, title, name, price, number_of_installments, interest_rate, duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		pesticide.ID, pesticide.StoreID, pesticide.Title, pesticide.Name, pesticide.Price,
		pesticide.NumberOfInstallments, pesticide.InterestRate, pesticide.Duration)
	if err != nil {
		return classifyWriteError(err, "store does not exist", "duplicate pesticide id")
	}

	return nil
}

func (r *PostgresRepository) CreateInstrument(ctx context.Context, instrument *models.Instrument) error {
	if instrument.ID == "" {
		instrument.ID = uuid.New().String()
	}
	instrument.Status = lifecycle.StatusAvailable

	query := `
		INSERT INTO instruments (id, owner_id, title, name, rent_price, duration)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		instrument.ID, instrument.OwnerID, instrument.Title, instrument.Name,
		instrument.RentPrice, instrument.Duration)
	if err != nil {
		return classifyWriteError(err, "owner does not exist", "duplicate instrument id")
	}

	return nil
}

// Lifecycle transitions delegate to the engine
func (r *PostgresRepository) RequestResource(ctx context.Context, kind lifecycle.Kind, resourceID, requesterID string) error {
	return r.engine.Request(ctx, kind, resourceID, requesterID)
}

func (r *PostgresRepository) AcceptRequest(ctx context.Context, kind lifecycle.Kind, resourceID string) error {
	return r.engine.Accept(ctx, kind, resourceID)
}

func (r *PostgresRepository) RejectRequest(ctx context.Context, kind lifecycle.Kind, resourceID string) error {
	return r.engine.Reject(ctx, kind, resourceID)
}

// Query builders shared by all four resource kinds. The joined columns are
// aliased to the provider_/requester_ names the listing structs expect.
func availableQuery(kind lifecycle.Kind) string {
	return fmt.Sprintf(`
		SELECT r.*, u.name AS provider_name, u.phone AS provider_phone, u.email AS provider_email
		FROM %s r
		JOIN users u ON r.%s = u.id
		WHERE r.status = '%s'`,
		kind.Table, kind.ProviderColumn, lifecycle.StatusAvailable)
}

func byProviderQuery(kind lifecycle.Kind) string {
	return fmt.Sprintf(`SELECT * FROM %s WHERE %s = $1`, kind.Table, kind.ProviderColumn)
}

func requestsQuery(kind lifecycle.Kind) string {
	return fmt.Sprintf(`
		SELECT r.*, u.name AS requester_name, u.phone AS requester_phone,
		       u.email AS requester_email, u.address AS requester_address
		FROM %s r
		JOIN users u ON r.requested_by = u.id
		WHERE r.%s = $1 AND r.status = '%s'`,
		kind.Table, kind.ProviderColumn, lifecycle.StatusPending)
}

func terminalQuery(kind lifecycle.Kind) string {
	return fmt.Sprintf(`
		SELECT r.*, u.name AS requester_name, u.phone AS requester_phone,
		       u.email AS requester_email, u.address AS requester_address
		FROM %s r
		JOIN users u ON r.requested_by = u.id
		WHERE r.%s = $1 AND r.status = '%s'`,
		kind.Table, kind.ProviderColumn, kind.Terminal)
}

func rentalsQuery(kind lifecycle.Kind) string {
	return fmt.Sprintf(`
		SELECT r.*, u.name AS provider_name, u.phone AS provider_phone, u.email AS provider_email
		FROM %s r
		JOIN users u ON r.%s = u.id
		WHERE r.requested_by = $1`,
		kind.Table, kind.ProviderColumn)
}

func selectList[T any](ctx context.Context, db *sqlx.DB, query string, args ...interface{}) ([]T, error) {
	var rows []T
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// Land views
func (r *PostgresRepository) AvailableLands(ctx context.Context) ([]models.LandWithProvider, error) {
	return selectList[models.LandWithProvider](ctx, r.db, availableQuery(lifecycle.Land))
}

func (r *PostgresRepository) LandsByOwner(ctx context.Context, ownerID string) ([]models.Land, error) {
	return selectList[models.Land](ctx, r.db, byProviderQuery(lifecycle.Land), ownerID)
}

func (r *PostgresRepository) LandRequests(ctx context.Context, ownerID string) ([]models.LandWithRequester, error) {
	return selectList[models.LandWithRequester](ctx, r.db, requestsQuery(lifecycle.Land), ownerID)
}

func (r *PostgresRepository) RentedLands(ctx context.Context, ownerID string) ([]models.LandWithRequester, error) {
	return selectList[models.LandWithRequester](ctx, r.db, terminalQuery(lifecycle.Land), ownerID)
}

func (r *PostgresRepository) LandRentals(ctx context.Context, farmerID string) ([]models.LandWithProvider, error) {
	return selectList[models.LandWithProvider](ctx, r.db, rentalsQuery(lifecycle.Land), farmerID)
}

// Loan views
func (r *PostgresRepository) AvailableLoans(ctx context.Context) ([]models.LoanWithProvider, error) {
	return selectList[models.LoanWithProvider](ctx, r.db, availableQuery(lifecycle.Loan))
}

func (r *PostgresRepository) LoansByBank(ctx context.Context, bankID string) ([]models.Loan, error) {
	return selectList[models.Loan](ctx, r.db, byProviderQuery(lifecycle.Loan), bankID)
}

func (r *PostgresRepository) LoanRequests(ctx context.Context, bankID string) ([]models.LoanWithRequester, error) {
	return selectList[models.LoanWithRequester](ctx, r.db, requestsQuery(lifecycle.Loan), bankID)
}

func (r *PostgresRepository) ApprovedLoans(ctx context.Context, bankID string) ([]models.LoanWithRequester, error) {
	return selectList[models.LoanWithRequester](ctx, r.db, terminalQuery(lifecycle.Loan), bankID)
}

func (r *PostgresRepository) LoanRentals(ctx context.Context, farmerID string) ([]models.LoanWithProvider, error) {
	return selectList[models.LoanWithProvider](ctx, r.db, rentalsQuery(lifecycle.Loan), farmerID)
}

// Pesticide views
func (r *PostgresRepository) AvailablePesticides(ctx context.Context) ([]models.PesticideWithProvider, error) {
	return selectList[models.PesticideWithProvider](ctx, r.db, availableQuery(lifecycle.Pesticide))
}

func (r *PostgresRepository) PesticidesByStore(ctx context.Context, storeID string) ([]models.Pesticide, error) {
	return selectList[models.Pesticide](ctx, r.db, byProviderQuery(lifecycle.Pesticide), storeID)
}

func (r *PostgresRepository) PesticideRequests(ctx context.Context, storeID string) ([]models.PesticideWithRequester, error) {
	return selectList[models.PesticideWithRequester](ctx, r.db, requestsQuery(lifecycle.Pesticide), storeID)
}

func (r *PostgresRepository) SoldPesticides(ctx context.Context, storeID string) ([]models.PesticideWithRequester, error) {
	return selectList[models.PesticideWithRequester](ctx, r.db, terminalQuery(lifecycle.Pesticide), storeID)
}

func (r *PostgresRepository) PesticideRentals(ctx context.Context, farmerID string) ([]models.PesticideWithProvider, error) {
	return selectList[models.PesticideWithProvider](ctx, r.db, rentalsQuery(lifecycle.Pesticide), farmerID)
}

// Instrument views
func (r *PostgresRepository) AvailableInstruments(ctx context.Context) ([]models.InstrumentWithProvider, error) {
	return selectList[models.InstrumentWithProvider](ctx, r.db, availableQuery(lifecycle.Instrument))
}

func (r *PostgresRepository) InstrumentsByOwner(ctx context.Context, ownerID string) ([]models.Instrument, error) {
	return selectList[models.Instrument](ctx, r.db, byProviderQuery(lifecycle.Instrument), ownerID)
}

func (r *PostgresRepository) InstrumentRequests(ctx context.Context, ownerID string) ([]models.InstrumentWithRequester, error) {
	return selectList[models.InstrumentWithRequester](ctx, r.db, requestsQuery(lifecycle.Instrument), ownerID)
}

func (r *PostgresRepository) RentedInstruments(ctx context.Context, ownerID string) ([]models.InstrumentWithRequester, error) {
	return selectList[models.InstrumentWithRequester](ctx, r.db, terminalQuery(lifecycle.Instrument), ownerID)
}

func (r *PostgresRepository) InstrumentRentals(ctx context.Context, farmerID string) ([]models.InstrumentWithProvider, error) {
	return selectList[models.InstrumentWithProvider](ctx, r.db, rentalsQuery(lifecycle.Instrument), farmerID)
}

// Shared project methods
func (r *PostgresRepository) CreateProject(ctx context.Context, project *models.SharedProject) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	project.Status = "pending"

	query := `
		INSERT INTO shared_projects (id, creator_id, title, description, location, season)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		project.ID, project.CreatorID, project.Title, project.Description,
		project.Location, project.Season)
	if err != nil {
		return classifyWriteError(err, "creator does not exist", "duplicate project id")
	}

	return nil
}

func (r *PostgresRepository) CreateInvite(ctx context.Context, invite *models.ProjectInvite) error {
	if invite.ID == "" {
		invite.ID = uuid.New().String()
	}
	invite.Status = "pending"

	query := `
		INSERT INTO shared_project_invites (id, project_id, invitor_id, invited_farmer_id)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		invite.ID, invite.ProjectID, invite.InvitorID, invite.InvitedFarmerID)
	if err != nil {
		return classifyWriteError(err, "project or farmer does not exist", "duplicate invite id")
	}

	return nil
}

// ProjectsForFarmer returns the union of projects the farmer created and
// projects where the farmer holds an accepted invite.
func (r *PostgresRepository) ProjectsForFarmer(ctx context.Context, farmerID string) ([]models.SharedProject, error) {
	query := `
		SELECT p.* FROM shared_projects p WHERE p.creator_id = $1
		UNION
		SELECT p.* FROM shared_projects p
		JOIN shared_project_invites i ON i.project_id = p.id
		WHERE i.invited_farmer_id = $1 AND i.status = 'accepted'
	`

	return selectList[models.SharedProject](ctx, r.db, query, farmerID)
}

func (r *PostgresRepository) PendingInvitesForFarmer(ctx context.Context, farmerID string) ([]models.ProjectInviteDetail, error) {
	query := `
		SELECT i.*, p.title AS project_title, p.location AS project_location, p.season AS project_season,
		       u.name AS invitor_name, u.phone AS invitor_phone
		FROM shared_project_invites i
		JOIN shared_projects p ON i.project_id = p.id
		JOIN users u ON i.invitor_id = u.id
		WHERE i.invited_farmer_id = $1 AND i.status = 'pending'
	`

	return selectList[models.ProjectInviteDetail](ctx, r.db, query, farmerID)
}

// RespondToInvite records the invitee's answer. The pending guard keeps a
// second response from overwriting the first.
func (r *PostgresRepository) RespondToInvite(ctx context.Context, inviteID, status string) error {
	query := `UPDATE shared_project_invites SET status = $1 WHERE id = $2 AND status = 'pending'`

	res, err := r.db.ExecContext(ctx, query, status, inviteID)
	if err != nil {
		return fmt.Errorf("error responding to invitation: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var current string
	err = r.db.GetContext(ctx, &current, `SELECT status FROM shared_project_invites WHERE id = $1`, inviteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("invitation not found")
		}
		return err
	}

	return apperrors.Conflict("invitation has already been answered")
}
