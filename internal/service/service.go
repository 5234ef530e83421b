package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmaid/farmaid-server/internal/apperrors"
	"github.com/farmaid/farmaid-server/internal/lifecycle"
	"github.com/farmaid/farmaid-server/internal/models"
	"github.com/farmaid/farmaid-server/internal/repository"
)

// Invite responses accepted by RespondToInvitation
const (
	InviteAccepted = "accepted"
	InviteRejected = "rejected"
)

// Service defines all the business logic operations
type Service interface {
	// Authentication
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context, userID string) error
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// Resource posting
	PostLand(ctx context.Context, req models.PostLandRequest) (*models.Land, error)
	PostLoan(ctx context.Context, req models.PostLoanRequest) (*models.Loan, error)
	PostPesticide(ctx context.Context, req models.PostPesticideRequest) (*models.Pesticide, error)
	PostInstrument(ctx context.Context, req models.PostInstrumentRequest) (*models.Instrument, error)

	// Lifecycle transitions
	RequestResource(ctx context.Context, kind lifecycle.Kind, resourceID, farmerID string) error
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

	// Shared projects
	CreateProject(ctx context.Context, req models.CreateProjectRequest) (*models.SharedProject, error)
	NearbyFarmers(ctx context.Context, location string) ([]models.User, error)
	InviteToProject(ctx context.Context, req models.InviteToProjectRequest) error
	FarmerProjects(ctx context.Context, farmerID string) ([]models.SharedProject, error)
	ProjectInvitations(ctx context.Context, farmerID string) ([]models.ProjectInviteDetail, error)
	RespondToInvitation(ctx context.Context, inviteID, response string) error
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo          repository.Repository
	jwtSecret     []byte
	tokenDuration time.Duration
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(repo repository.Repository, jwtSecret string) Service {
	return &DefaultService{
		repo:          repo,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: 24 * time.Hour, // 24 hours token validity
	}
}

// Authentication methods
func (s *DefaultService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	// Check if user already exists
	existingUser, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking user existence: %w", err)
	}

	if existingUser != nil {
		return nil, apperrors.Validation("user already exists with this email")
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: string(hashedPassword),
		Role:     req.Role,
		Address:  req.Address,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, apperrors.Auth("invalid credentials or role")
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.Auth("invalid credentials or role")
	}

	// The client picks the role at login; it must match the stored one
	if user.Role != req.Role {
		return nil, apperrors.Auth("invalid credentials or role")
	}

	if err := s.repo.SetLoggedIn(ctx, user.ID, true); err != nil {
		return nil, fmt.Errorf("error updating login status: %w", err)
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthResponse{
		Message:   "Login successful",
		User:      user,
		Token:     token,
		ExpiresIn: int(s.tokenDuration.Seconds()),
	}, nil
}

func (s *DefaultService) Logout(ctx context.Context, userID string) error {
	return s.repo.SetLoggedIn(ctx, userID, false)
}

func (s *DefaultService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user not found")
	}
	return user, nil
}

// requireRole verifies that the referenced user exists and holds the role
// the operation demands.
func (s *DefaultService) requireRole(ctx context.Context, userID, role string) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return apperrors.Validation("user does not exist")
	}
	if user.Role != role {
		return apperrors.Validation(fmt.Sprintf("user is not a %s", role))
	}
	return nil
}

// Resource posting
func (s *DefaultService) PostLand(ctx context.Context, req models.PostLandRequest) (*models.Land, error) {
	if err := s.requireRole(ctx, req.OwnerID, models.RoleLandowner); err != nil {
		return nil, err
	}

	land := &models.Land{
		OwnerID:      req.OwnerID,
		Title:        req.Title,
		Location:     req.Location,
		Size:         req.Size,
		InterestRate: req.InterestRate,
	}

	if err := s.repo.CreateLand(ctx, land); err != nil {
		return nil, fmt.Errorf("error posting land: %w", err)
	}

	return land, nil
}

func (s *DefaultService) PostLoan(ctx context.Context, req models.PostLoanRequest) (*models.Loan, error) {
	if err := s.requireRole(ctx, req.BankID, models.RoleBank); err != nil {
		return nil, err
	}

	loan := &models.Loan{
		BankID:       req.BankID,
		Title:        req.Title,
		Amount:       req.Amount,
		InterestRate: req.InterestRate,
		Duration:     req.Duration,
	}

	if err := s.repo.CreateLoan(ctx, loan); err != nil {
		return nil, fmt.Errorf("error posting loan: %w", err)
	}

	return loan, nil
}

func (s *DefaultService) PostPesticide(ctx context.Context, req models.PostPesticideRequest) (*models.Pesticide, error) {
	if err := s.requireRole(ctx, req.StoreID, models.RolePesticideStore); err != nil {
		return nil, err
	}

	pesticide := &models.Pesticide{
		StoreID:              req.StoreID,
		Title:                req.Title,
		Name:                 req.Name,
		Price:                req.Price,
		NumberOfInstallments: req.NumberOfInstallments,
		InterestRate:         req.InterestRate,
		Duration:             req.Duration,
	}

	if err := s.repo.CreatePesticide(ctx, pesticide); err != nil {
		return nil, fmt.Errorf("error posting pesticide: %w", err)
	}

	return pesticide, nil
}

func (s *DefaultService) PostInstrument(ctx context.Context, req models.PostInstrumentRequest) (*models.Instrument, error) {
	if err := s.requireRole(ctx, req.OwnerID, models.RoleInstrumentOwner); err != nil {
		return nil, err
	}

	instrument := &models.Instrument{
		OwnerID:   req.OwnerID,
		Title:     req.Title,
		Name:      req.Name,
		RentPrice: req.RentPrice,
		Duration:  req.Duration,
	}

	if err := s.repo.CreateInstrument(ctx, instrument); err != nil {
		return nil, fmt.Errorf("error posting instrument: %w", err)
	}

	return instrument, nil
}

// Lifecycle transitions
func (s *DefaultService) RequestResource(ctx context.Context, kind lifecycle.Kind, resourceID, farmerID string) error {
	if err := s.requireRole(ctx, farmerID, models.RoleFarmer); err != nil {
		return err
	}
	return s.repo.RequestResource(ctx, kind, resourceID, farmerID)
}

func (s *DefaultService) AcceptRequest(ctx context.Context, kind lifecycle.Kind, resourceID string) error {
	return s.repo.AcceptRequest(ctx, kind, resourceID)
}

func (s *DefaultService) RejectRequest(ctx context.Context, kind lifecycle.Kind, resourceID string) error {
	return s.repo.RejectRequest(ctx, kind, resourceID)
}

// Read-side views pass straight through to the repository
func (s *DefaultService) AvailableLands(ctx context.Context) ([]models.LandWithProvider, error) {
	return s.repo.AvailableLands(ctx)
}

func (s *DefaultService) LandsByOwner(ctx context.Context, ownerID string) ([]models.Land, error) {
	return s.repo.LandsByOwner(ctx, ownerID)
}

func (s *DefaultService) LandRequests(ctx context.Context, ownerID string) ([]models.LandWithRequester, error) {
	return s.repo.LandRequests(ctx, ownerID)
}

func (s *DefaultService) RentedLands(ctx context.Context, ownerID string) ([]models.LandWithRequester, error) {
	return s.repo.RentedLands(ctx, ownerID)
}

func (s *DefaultService) LandRentals(ctx context.Context, farmerID string) ([]models.LandWithProvider, error) {
	return s.repo.LandRentals(ctx, farmerID)
}

func (s *DefaultService) AvailableLoans(ctx context.Context) ([]models.LoanWithProvider, error) {
	return s.repo.AvailableLoans(ctx)
}

func (s *DefaultService) LoansByBank(ctx context.Context, bankID string) ([]models.Loan, error) {
	return s.repo.LoansByBank(ctx, bankID)
}

func (s *DefaultService) LoanRequests(ctx context.Context, bankID string) ([]models.LoanWithRequester, error) {
	return s.repo.LoanRequests(ctx, bankID)
}

func (s *DefaultService) ApprovedLoans(ctx context.Context, bankID string) ([]models.LoanWithRequester, error) {
	return s.repo.ApprovedLoans(ctx, bankID)
}

func (s *DefaultService) LoanRentals(ctx context.Context, farmerID string) ([]models.LoanWithProvider, error) {
	return s.repo.LoanRentals(ctx, farmerID)
}

func (s *DefaultService) AvailablePesticides(ctx context.Context) ([]models.PesticideWithProvider, error) {
	return s.repo.AvailablePesticides(ctx)
}

func (s *DefaultService) PesticidesByStore(ctx context.Context, storeID string) ([]models.Pesticide, error) {
	return s.repo.PesticidesByStore(ctx, storeID)
}

func (s *DefaultService) PesticideRequests(ctx context.Context, storeID string) ([]models.PesticideWithRequester, error) {
	return s.repo.PesticideRequests(ctx, storeID)
}

func (s *DefaultService) SoldPesticides(ctx context.Context, storeID string) ([]models.PesticideWithRequester, error) {
	return s.repo.SoldPesticides(ctx, storeID)
}

func (s *DefaultService) PesticideRentals(ctx context.Context, farmerID string) ([]models.PesticideWithProvider, error) {
	return s.repo.PesticideRentals(ctx, farmerID)
}

func (s *DefaultService) AvailableInstruments(ctx context.Context) ([]models.InstrumentWithProvider, error) {
	return s.repo.AvailableInstruments(ctx)
}

func (s *DefaultService) InstrumentsByOwner(ctx context.Context, ownerID string) ([]models.Instrument, error) {
	return s.repo.InstrumentsByOwner(ctx, ownerID)
}

func (s *DefaultService) InstrumentRequests(ctx context.Context, ownerID string) ([]models.InstrumentWithRequester, error) {
	return s.repo.InstrumentRequests(ctx, ownerID)
}

func (s *DefaultService) RentedInstruments(ctx context.Context, ownerID string) ([]models.InstrumentWithRequester, error) {
	return s.repo.RentedInstruments(ctx, ownerID)
}

func (s *DefaultService) InstrumentRentals(ctx context.Context, farmerID string) ([]models.InstrumentWithProvider, error) {
	return s.repo.InstrumentRentals(ctx, farmerID)
}

// Shared projects
func (s *DefaultService) CreateProject(ctx context.Context, req models.CreateProjectRequest) (*models.SharedProject, error) {
	if err := s.requireRole(ctx, req.CreatorID, models.RoleFarmer); err != nil {
		return nil, err
	}

	project := &models.SharedProject{
		CreatorID:   req.CreatorID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Season:      req.Season,
	}

	if err := s.repo.CreateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("error creating shared project: %w", err)
	}

	return project, nil
}

// NearbyFarmers returns all farmers. The location argument is accepted for
// interface compatibility but not used as a filter.
func (s *DefaultService) NearbyFarmers(ctx context.Context, location string) ([]models.User, error) {
	_ = location
	return s.repo.ListFarmers(ctx)
}

// InviteToProject fans out one invite row per invited farmer
func (s *DefaultService) InviteToProject(ctx context.Context, req models.InviteToProjectRequest) error {
	for _, farmerID := range req.InvitedFarmerIDs {
		invite := &models.ProjectInvite{
			ProjectID:       req.ProjectID,
			InvitorID:       req.InvitorID,
			InvitedFarmerID: farmerID,
		}
		if err := s.repo.CreateInvite(ctx, invite); err != nil {
			return fmt.Errorf("error inviting farmer %s: %w", farmerID, err)
		}
	}
	return nil
}

func (s *DefaultService) FarmerProjects(ctx context.Context, farmerID string) ([]models.SharedProject, error) {
	return s.repo.ProjectsForFarmer(ctx, farmerID)
}

func (s *DefaultService) ProjectInvitations(ctx context.Context, farmerID string) ([]models.ProjectInviteDetail, error) {
	return s.repo.PendingInvitesForFarmer(ctx, farmerID)
}

func (s *DefaultService) RespondToInvitation(ctx context.Context, inviteID, response string) error {
	if response != InviteAccepted && response != InviteRejected {
		return apperrors.Validation("response must be 'accepted' or 'rejected'")
	}
	return s.repo.RespondToInvite(ctx, inviteID, response)
}

// Helper methods
func (s *DefaultService) generateJWT(user *models.User) (string, error) {
	expirationTime := time.Now().Add(s.tokenDuration)

	claims := jwt.MapClaims{
		"sub":  user.ID, // subject
		"role": user.Role,
		"exp":  expirationTime.Unix(),
		"iat":  time.Now().Unix(), // issued at
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
