package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmaid/farmaid-server/internal/api/testutils"
	"github.com/farmaid/farmaid-server/internal/models"
)

func TestLoanLifecycle(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/bank/post-loan",
		models.PostLoanRequest{
			BankID:       testCtx.Bank.ID,
			Title:        "Seed capital",
			Amount:       25000,
			InterestRate: 7.5,
			Duration:     "12 months",
		},
		testutils.AuthHeaders(testCtx.Bank.Token),
	)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.CreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	loanID := created.ID

	// A farmer cannot post a loan
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/bank/post-loan",
		models.PostLoanRequest{
			BankID:       testCtx.Farmer.ID,
			Title:        "Not a bank",
			Amount:       100,
			InterestRate: 1,
			Duration:     "1 month",
		},
		testutils.AuthHeaders(testCtx.Farmer.Token),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Browse, request, accept
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/farmer/loans",
		nil,
		testutils.AuthHeaders(testCtx.Farmer.Token),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var loans []models.LoanWithProvider
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loans))
	require.Len(t, loans, 1)
	assert.Equal(t, "Test Bank", loans[0].ProviderName)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/farmer/request-loan/%s", loanID),
		models.RequestResourceRequest{FarmerID: testCtx.Farmer.ID},
		testutils.AuthHeaders(testCtx.Farmer.Token),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/bank/accept-loan-request/%s", loanID),
		nil,
		testutils.AuthHeaders(testCtx.Bank.Token),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	// A booked loan shows up under approved loans with the borrower joined
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/bank/approved-loans/%s", testCtx.Bank.ID),
		nil,
		testutils.AuthHeaders(testCtx.Bank.Token),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var approved []models.LoanWithRequester
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &approved))
	require.Len(t, approved, 1)
	assert.Equal(t, "booked", approved[0].Status)
	assert.Equal(t, "Test Farmer", approved[0].RequesterName)
}

func TestPesticideLifecycle(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/store/post-pesticide",
		models.PostPesticideRequest{
			StoreID:              testCtx.Store.ID,
			Title:                "Aphid control plan",
			Name:                 "Neemex",
			Price:                1200,
			NumberOfInstallments: 6,
			InterestRate:         3,
			Duration:             "6 months",
		},
		testutils.AuthHeaders(testCtx.Store.Token),
	)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.CreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	pesticideID := created.ID

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/farmer/request-pesticide/%s", pesticideID),
		models.RequestResourceRequest{FarmerID: testCtx.Farmer.ID},
		testutils.AuthHeaders(testCtx.Farmer.Token),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	// The store sees the pending request with the farmer's address
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/store/pesticide-requests/%s", testCtx.Store.ID),
		nil,
		testutils.AuthHeaders(testCtx.Store.Token),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var requests []models.PesticideWithRequester
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &requests))
	require.Len(t, requests, 1)
	assert.Equal(t, "1 Test Road", requests[0].RequesterAddress)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/store/accept-pesticide-request/%s", pesticideID),
		nil,
		testutils.AuthHeaders(testCtx.Store.Token),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/store/sold-pesticides/%s", testCtx.Store.ID),
		nil,
		testutils.AuthHeaders(testCtx.Store.Token),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var sold []models.PesticideWithRequester
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sold))
	require.Len(t, sold, 1)
	assert.Equal(t, "sold", sold[0].Status)
}

func TestInstrumentLifecycle(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/instrument/post-instrument",
		models.PostInstrumentRequest{
			OwnerID:   testCtx.InstrumentOwner.ID,
			Title:     "Tractor for hire",
			Name:      "MF 240",
			RentPrice: 80,
			Duration:  "per day",
		},
		testutils.AuthHeaders(testCtx.InstrumentOwner.Token),
	)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.CreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	instrumentID := created.ID

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/farmer/request-instrument/%s", instrumentID),
		models.RequestResourceRequest{FarmerID: testCtx.Farmer.ID},
		testutils.AuthHeaders(testCtx.Farmer.Token),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	// Rejection frees the instrument again
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/instrument/reject-instrument-request/%s", instrumentID),
		nil,
		testutils.AuthHeaders(testCtx.InstrumentOwner.Token),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/instrument/instruments/%s", testCtx.InstrumentOwner.ID),
		nil,
		testutils.AuthHeaders(testCtx.InstrumentOwner.Token),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var mine []models.Instrument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "available", mine[0].Status)
	assert.Nil(t, mine[0].RequestedBy)

	// Request again and rent it out
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/farmer/request-instrument/%s", instrumentID),
		models.RequestResourceRequest{FarmerID: testCtx.Farmer.ID},
		testutils.AuthHeaders(testCtx.Farmer.Token),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/instrument/accept-instrument-request/%s", instrumentID),
		nil,
		testutils.AuthHeaders(testCtx.InstrumentOwner.Token),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	// The farmer's rental history includes the instrument at any status
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/farmer/instrument-rentals/%s", testCtx.Farmer.ID),
		nil,
		testutils.AuthHeaders(testCtx.Farmer.Token),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var rentals []models.InstrumentWithProvider
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rentals))
	require.Len(t, rentals, 1)
	assert.Equal(t, "rented", rentals[0].Status)
	assert.Equal(t, "Test Instrument Owner", rentals[0].ProviderName)
}
