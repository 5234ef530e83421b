package models

// User roles
const (
	RoleFarmer          = "farmer"
	RoleLandowner       = "landowner"
	RoleBank            = "bank"
	RolePesticideStore  = "pesticide_store"
	RoleInstrumentOwner = "instrument_owner"
)

// User represents a user in the system
type User struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Email      string `db:"email" json:"email"`
	Phone      string `db:"phone" json:"phone"`
	Password   string `db:"password" json:"-"` // Password hash, not returned in JSON
	Role       string `db:"role" json:"role"`
	Address    string `db:"address" json:"address"`
	IsLoggedIn bool   `db:"is_logged_in" json:"-"`
}

// Land represents a land listing posted by a landowner
type Land struct {
	ID           string  `db:"id" json:"id"`
	OwnerID      string  `db:"owner_id" json:"ownerId"`
	Title        string  `db:"title" json:"title"`
	Location     string  `db:"location" json:"location"`
	Size         string  `db:"size" json:"size"`
	InterestRate float64 `db:"interest_rate" json:"interestRate"`
	RequestedBy  *string `db:"requested_by" json:"requestedBy"`
	Status       string  `db:"status" json:"status"`
}

// Loan represents a loan offer posted by a bank
type Loan struct {
	ID           string  `db:"id" json:"id"`
	BankID       string  `db:"bank_id" json:"bankId"`
	Title        string  `db:"title" json:"title"`
	Amount       float64 `db:"amount" json:"amount"`
	InterestRate float64 `db:"interest_rate" json:"interestRate"`
	Duration     string  `db:"duration" json:"duration"`
	RequestedBy  *string `db:"requested_by" json:"requestedBy"`
	Status       string  `db:"status" json:"status"`
}

// Pesticide represents a pesticide installment plan posted by a store
type Pesticide struct {
	ID                   string  `db:"id" json:"id"`
	StoreID              string  `db:"store_id" json:"storeId"`
	Title                string  `db:"title" json:"title"`
	Name                 string  `db:"name" json:"name"`
	Price                int64   `db:"price" json:"price"`
	NumberOfInstallments int     `db:"number_of_installments" json:"numberOfInstallments"`
	InterestRate         float64 `db:"interest_rate" json:"interestRate"`
	Duration             string  `db:"duration" json:"duration"`
	RequestedBy          *string `db:"requested_by" json:"requestedBy"`
	Status               string  `db:"status" json:"status"`
}

// Instrument represents an instrument listed for rent by its owner
type Instrument struct {
	ID          string  `db:"id" json:"id"`
	OwnerID     string  `db:"owner_id" json:"ownerId"`
	Title       string  `db:"title" json:"title"`
	Name        string  `db:"name" json:"name"`
	RentPrice   float64 `db:"rent_price" json:"rentPrice"`
	Duration    string  `db:"duration" json:"duration"`
	RequestedBy *string `db:"requested_by" json:"requestedBy"`
	Status      string  `db:"status" json:"status"`
}

// ProviderContact carries the provider identity joined onto a resource row
// for farmer-facing listings
type ProviderContact struct {
	ProviderName  string `db:"provider_name" json:"providerName"`
	ProviderPhone string `db:"provider_phone" json:"providerPhone"`
	ProviderEmail string `db:"provider_email" json:"providerEmail"`
}

// RequesterContact carries the requesting farmer's identity joined onto a
// resource row for provider-facing views
type RequesterContact struct {
	RequesterName    string `db:"requester_name" json:"requesterName"`
	RequesterPhone   string `db:"requester_phone" json:"requesterPhone"`
	RequesterEmail   string `db:"requester_email" json:"requesterEmail"`
	RequesterAddress string `db:"requester_address" json:"requesterAddress"`
}

// Listing rows joined with the provider identity
type LandWithProvider struct {
	Land
	ProviderContact
}

type LoanWithProvider struct {
	Loan
	ProviderContact
}

type PesticideWithProvider struct {
	Pesticide
	ProviderContact
}

type InstrumentWithProvider struct {
	Instrument
	ProviderContact
}

// Listing rows joined with the requester identity
type LandWithRequester struct {
	Land
	RequesterContact
}

type LoanWithRequester struct {
	Loan
	RequesterContact
}

type PesticideWithRequester struct {
	Pesticide
	RequesterContact
}

type InstrumentWithRequester struct {
	Instrument
	RequesterContact
}

// SharedProject represents a farming project created by a farmer
type SharedProject struct {
	ID          string `db:"id" json:"id"`
	CreatorID   string `db:"creator_id" json:"creatorId"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	Location    string `db:"location" json:"location"`
	Season      string `db:"season" json:"season"`
	Status      string `db:"status" json:"status"`
}

// ProjectInvite represents an invitation to join a shared project
type ProjectInvite struct {
	ID              string `db:"id" json:"id"`
	ProjectID       string `db:"project_id" json:"projectId"`
	InvitorID       string `db:"invitor_id" json:"invitorId"`
	InvitedFarmerID string `db:"invited_farmer_id" json:"invitedFarmerId"`
	Status          string `db:"status" json:"status"`
}

// ProjectInviteDetail is an invite joined with the project and invitor
// identity, shown on the invitee's dashboard
type ProjectInviteDetail struct {
	ProjectInvite
	ProjectTitle    string `db:"project_title" json:"projectTitle"`
	ProjectLocation string `db:"project_location" json:"projectLocation"`
	ProjectSeason   string `db:"project_season" json:"projectSeason"`
	InvitorName     string `db:"invitor_name" json:"invitorName"`
	InvitorPhone    string `db:"invitor_phone" json:"invitorPhone"`
}
