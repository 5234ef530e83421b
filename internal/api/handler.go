package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmaid/farmaid-server/internal/apperrors"
	"github.com/farmaid/farmaid-server/internal/lifecycle"
	"github.com/farmaid/farmaid-server/internal/models"
	"github.com/farmaid/farmaid-server/internal/service"
)

// Handler holds the service and exposes the HTTP routes
type Handler struct {
	svc service.Service
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

// kindMessages carries the per-kind success messages the clients display
type kindMessages struct {
	posted    string
	requested string
	accepted  string
	rejected  string
}

var messages = map[string]kindMessages{
	lifecycle.Land.Name: {
		posted:    "Land posted successfully",
		requested: "Land rental request submitted successfully",
		accepted:  "Land rental request accepted successfully",
		rejected:  "Land rental request rejected successfully",
	},
	lifecycle.Loan.Name: {
		posted:    "Loan posted successfully",
		requested: "Loan request submitted successfully",
		accepted:  "Loan request accepted successfully",
		rejected:  "Loan request rejected successfully",
	},
	lifecycle.Pesticide.Name: {
		posted:    "Pesticide installment plan posted successfully",
		requested: "Pesticide installment request submitted successfully",
		accepted:  "Pesticide request accepted successfully",
		rejected:  "Pesticide request rejected successfully",
	},
	lifecycle.Instrument.Name: {
		posted:    "Instrument posted successfully",
		requested: "Instrument rental request submitted successfully",
		accepted:  "Instrument rental request accepted successfully",
		rejected:  "Instrument rental request rejected successfully",
	},
}

// SetupRoutes registers all API routes on the router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Farm Aid API is running")
	})

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.POST("/logout", h.logout)
	}

	api.GET("/users/:id", AuthMiddleware(), h.getUser)

	farmer := api.Group("/farmer", AuthMiddleware())
	{
		farmer.GET("/lands", listHandler(h.svc.AvailableLands))
		farmer.GET("/loans", listHandler(h.svc.AvailableLoans))
		farmer.GET("/pesticides", listHandler(h.svc.AvailablePesticides))
		farmer.GET("/instruments", listHandler(h.svc.AvailableInstruments))

		farmer.POST("/request-land/:id", h.requestHandler(lifecycle.Land))
		farmer.POST("/request-loan/:id", h.requestHandler(lifecycle.Loan))
		farmer.POST("/request-pesticide/:id", h.requestHandler(lifecycle.Pesticide))
		farmer.POST("/request-instrument/:id", h.requestHandler(lifecycle.Instrument))

		farmer.GET("/land-rentals/:farmerId", listByParam("farmerId", h.svc.LandRentals))
		farmer.GET("/loan-rentals/:farmerId", listByParam("farmerId", h.svc.LoanRentals))
		farmer.GET("/pesticide-rentals/:farmerId", listByParam("farmerId", h.svc.PesticideRentals))
		farmer.GET("/instrument-rentals/:farmerId", listByParam("farmerId", h.svc.InstrumentRentals))

		farmer.POST("/shared-project", h.createProject)
		farmer.GET("/nearby-farmers/:location", h.nearbyFarmers)
		farmer.POST("/invite-to-project", h.inviteToProject)
		farmer.GET("/projects/:farmerId", listByParam("farmerId", h.svc.FarmerProjects))
		farmer.GET("/project-invitations/:farmerId", listByParam("farmerId", h.svc.ProjectInvitations))
		farmer.POST("/respond-to-invitation/:id", h.respondToInvitation)
	}

	landowner := api.Group("/landowner", AuthMiddleware())
	{
		landowner.POST("/post-land", h.postLand)
		landowner.GET("/lands/:ownerId", listByParam("ownerId", h.svc.LandsByOwner))
		landowner.GET("/land-requests/:ownerId", listByParam("ownerId", h.svc.LandRequests))
		landowner.GET("/rented-lands/:ownerId", listByParam("ownerId", h.svc.RentedLands))
		landowner.POST("/accept-land-request/:id", h.acceptHandler(lifecycle.Land))
		landowner.POST("/reject-land-request/:id", h.rejectHandler(lifecycle.Land))
	}

	bank := api.Group("/bank", AuthMiddleware())
	{
		bank.POST("/post-loan", h.postLoan)
		bank.GET("/loans/:bankId", listByParam("bankId", h.svc.LoansByBank))
		bank.GET("/loan-requests/:bankId", listByParam("bankId", h.svc.LoanRequests))
		bank.GET("/approved-loans/:bankId", listByParam("bankId", h.svc.ApprovedLoans))
		bank.POST("/accept-loan-request/:id", h.acceptHandler(lifecycle.Loan))
		bank.POST("/reject-loan-request/:id", h.rejectHandler(lifecycle.Loan))
	}

	store := api.Group("/store", AuthMiddleware())
	{
		store.POST("/post-pesticide", h.postPesticide)
		store.GET("/pesticides/:storeId", listByParam("storeId", h.svc.PesticidesByStore))
		store.GET("/pesticide-requests/:storeId", listByParam("storeId", h.svc.PesticideRequests))
		store.GET("/sold-pesticides/:storeId", listByParam("storeId", h.svc.SoldPesticides))
		store.POST("/accept-pesticide-request/:id", h.acceptHandler(lifecycle.Pesticide))
		store.POST("/reject-pesticide-request/:id", h.rejectHandler(lifecycle.Pesticide))
	}

	instrument := api.Group("/instrument", AuthMiddleware())
	{
		instrument.POST("/post-instrument", h.postInstrument)
		instrument.GET("/instruments/:ownerId", listByParam("ownerId", h.svc.InstrumentsByOwner))
		instrument.GET("/instrument-requests/:ownerId", listByParam("ownerId", h.svc.InstrumentRequests))
		instrument.GET("/rented-instruments/:ownerId", listByParam("ownerId", h.svc.RentedInstruments))
		instrument.POST("/accept-instrument-request/:id", h.acceptHandler(lifecycle.Instrument))
		instrument.POST("/reject-instrument-request/:id", h.rejectHandler(lifecycle.Instrument))
	}
}

// respondError maps a failure onto the taxonomy's HTTP status. Unclassified
// errors are logged and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	message := err.Error()

	if status == http.StatusInternalServerError {
		zap.L().Error("unexpected error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		message = "internal server error"
	}

	c.JSON(status, models.ErrorResponse{
		Status:  "error",
		Code:    string(apperrors.CodeOf(err)),
		Message: message,
	})
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    string(apperrors.CodeValidation),
		Message: err.Error(),
	})
}

// listHandler serves a parameterless listing view
func listHandler[T any](fetch func(ctx context.Context) ([]T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := fetch(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		if rows == nil {
			rows = []T{}
		}
		c.JSON(http.StatusOK, rows)
	}
}

// listByParam serves a listing view keyed by a path parameter
func listByParam[T any](param string, fetch func(ctx context.Context, id string) ([]T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := fetch(c.Request.Context(), c.Param(param))
		if err != nil {
			respondError(c, err)
			return
		}
		if rows == nil {
			rows = []T{}
		}
		c.JSON(http.StatusOK, rows)
	}
}

// Lifecycle transition handlers, one closure per kind
func (h *Handler) requestHandler(kind lifecycle.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RequestResourceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		if err := h.svc.RequestResource(c.Request.Context(), kind, c.Param("id"), req.FarmerID); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.MessageResponse{Message: messages[kind.Name].requested})
	}
}

func (h *Handler) acceptHandler(kind lifecycle.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.svc.AcceptRequest(c.Request.Context(), kind, c.Param("id")); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.MessageResponse{Message: messages[kind.Name].accepted})
	}
}

func (h *Handler) rejectHandler(kind lifecycle.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.svc.RejectRequest(c.Request.Context(), kind, c.Param("id")); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.MessageResponse{Message: messages[kind.Name].rejected})
	}
}

// Auth handlers
func (h *Handler) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.RegisterResponse{
		Message: "User registered successfully",
		User:    user,
	})
}

func (h *Handler) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) logout(c *gin.Context) {
	var req models.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.svc.Logout(c.Request.Context(), req.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Logout successful"})
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Resource posting handlers
func (h *Handler) postLand(c *gin.Context) {
	var req models.PostLandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	land, err := h.svc.PostLand(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.CreatedResponse{
		Message: messages[lifecycle.Land.Name].posted,
		ID:      land.ID,
	})
}

func (h *Handler) postLoan(c *gin.Context) {
	var req models.PostLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	loan, err := h.svc.PostLoan(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.CreatedResponse{
		Message: messages[lifecycle.Loan.Name].posted,
		ID:      loan.ID,
	})
}

func (h *Handler) postPesticide(c *gin.Context) {
	var req models.PostPesticideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	pesticide, err := h.svc.PostPesticide(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.CreatedResponse{
		Message: messages[lifecycle.Pesticide.Name].posted,
		ID:      pesticide.ID,
	})
}

func (h *Handler) postInstrument(c *gin.Context) {
	var req models.PostInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	instrument, err := h.svc.PostInstrument(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.CreatedResponse{
		Message: messages[lifecycle.Instrument.Name].posted,
		ID:      instrument.ID,
	})
}

// Shared project handlers
func (h *Handler) createProject(c *gin.Context) {
	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	project, err := h.svc.CreateProject(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.CreatedResponse{
		Message: "Shared project created successfully",
		ID:      project.ID,
	})
}

func (h *Handler) nearbyFarmers(c *gin.Context) {
	farmers, err := h.svc.NearbyFarmers(c.Request.Context(), c.Param("location"))
	if err != nil {
		respondError(c, err)
		return
	}
	if farmers == nil {
		farmers = []models.User{}
	}

	c.JSON(http.StatusOK, farmers)
}

func (h *Handler) inviteToProject(c *gin.Context) {
	var req models.InviteToProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.svc.InviteToProject(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Invitations sent successfully"})
}

func (h *Handler) respondToInvitation(c *gin.Context) {
	var req models.RespondToInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.svc.RespondToInvitation(c.Request.Context(), c.Param("id"), req.Response); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Invitation response recorded"})
}
