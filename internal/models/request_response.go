package models

// Request models
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=farmer landowner bank pesticide_store instrument_owner"`
	Address  string `json:"address" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type LogoutRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type PostLandRequest struct {
	OwnerID      string  `json:"ownerId" binding:"required"`
	Title        string  `json:"title" binding:"required"`
	Location     string  `json:"location" binding:"required"`
	Size         string  `json:"size" binding:"required"`
	InterestRate float64 `json:"interestRate"`
}

type PostLoanRequest struct {
	BankID       string  `json:"bankId" binding:"required"`
	Title        string  `json:"title" binding:"required"`
	Amount       float64 `json:"amount" binding:"required"`
	InterestRate float64 `json:"interestRate"`
	Duration     string  `json:"duration" binding:"required"`
}

type PostPesticideRequest struct {
	StoreID              string  `json:"storeId" binding:"required"`
	Title                string  `json:"title" binding:"required"`
	Name                 string  `json:"name" binding:"required"`
	Price                int64   `json:"price" binding:"required"`
	NumberOfInstallments int     `json:"numberOfInstallments" binding:"required"`
	InterestRate         float64 `json:"interestRate"`
	Duration             string  `json:"duration" binding:"required"`
}

type PostInstrumentRequest struct {
	OwnerID   string  `json:"ownerId" binding:"required"`
	Title     string  `json:"title" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	RentPrice float64 `json:"rentPrice" binding:"required"`
	Duration  string  `json:"duration" binding:"required"`
}

type RequestResourceRequest struct {
	FarmerID string `json:"farmerId" binding:"required"`
}

type CreateProjectRequest struct {
	CreatorID   string `json:"creatorId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Season      string `json:"season" binding:"required"`
}

type InviteToProjectRequest struct {
	ProjectID        string   `json:"projectId" binding:"required"`
	InvitorID        string   `json:"invitorId" binding:"required"`
	InvitedFarmerIDs []string `json:"invitedFarmerIds" binding:"required,min=1"`
}

type RespondToInviteRequest struct {
	Response string `json:"response" binding:"required"`
}

// Response models
type RegisterResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}

type AuthResponse struct {
	Message   string `json:"message"`
	User      *User  `json:"user"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

type CreatedResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
