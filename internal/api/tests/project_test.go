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

func farmerProjects(t *testing.T, testCtx *testutils.TestContext, farmer testutils.TestUser) []models.SharedProject {
	t.Helper()

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/farmer/projects/%s", farmer.ID),
		nil,
		testutils.AuthHeaders(farmer.Token),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var projects []models.SharedProject
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &projects))
	return projects
}

func TestSharedProjectFlow(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	farmerB := testCtx.CreateUser(t, models.RoleFarmer, "farmer-b@example.com", "Farmer B")
	farmerC := testCtx.CreateUser(t, models.RoleFarmer, "farmer-c@example.com", "Farmer C")

	// Farmer A creates a project
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/farmer/shared-project",
		models.CreateProjectRequest{
			CreatorID:   testCtx.Farmer.ID,
			Title:       "Community wheat trial",
			Description: "Split irrigation costs across adjoining plots",
			Location:    "North valley",
			Season:      "Rabi",
		},
		testutils.AuthHeaders(testCtx.Farmer.Token),
	)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.CreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	projectID := created.ID

	// The creator sees the project right away
	projects := farmerProjects(t, testCtx, testCtx.Farmer)
	require.Len(t, projects, 1)
	assert.Equal(t, projectID, projects[0].ID)

	// Candidate partners are all farmers, other roles never appear
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/farmer/nearby-farmers/North%20valley",
		nil,
		testutils.AuthHeaders(testCtx.Farmer.Token),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var nearby []models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nearby))
	require.Len(t, nearby, 3)
	for _, u := range nearby {
		assert.Equal(t, models.RoleFarmer, u.Role)
	}

	// One call fans out to every invited farmer
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/farmer/invite-to-project",
		models.InviteToProjectRequest{
			ProjectID:        projectID,
			InvitorID:        testCtx.Farmer.ID,
			InvitedFarmerIDs: []string{farmerB.ID, farmerC.ID},
		},
		testutils.AuthHeaders(testCtx.Farmer.Token),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	// Each invitee sees a pending invite with project and invitor joined
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/farmer/project-invitations/%s", farmerB.ID),
		nil,
		testutils.AuthHeaders(farmerB.Token),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var invitesB []models.ProjectInviteDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invitesB))
	require.Len(t, invitesB, 1)
	assert.Equal(t, "Community wheat trial", invitesB[0].ProjectTitle)
	assert.Equal(t, "Test Farmer", invitesB[0].InvitorName)
	inviteB := invitesB[0].ID

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/farmer/project-invitations/%s", farmerC.ID),
		nil,
		testutils.AuthHeaders(farmerC.Token),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var invitesC []models.ProjectInviteDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invitesC))
	require.Len(t, invitesC, 1)
	inviteC := invitesC[0].ID

	// B accepts and the project joins their list
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/farmer/respond-to-invitation/%s", inviteB),
		models.RespondToInviteRequest{Response: "accepted"},
		testutils.AuthHeaders(farmerB.Token),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	projects = farmerProjects(t, testCtx, farmerB)
	require.Len(t, projects, 1)
	assert.Equal(t, projectID, projects[0].ID)

	// C rejects and their list stays empty
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/farmer/respond-to-invitation/%s", inviteC),
		models.RespondToInviteRequest{Response: "rejected"},
		testutils.AuthHeaders(farmerC.Token),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Empty(t, farmerProjects(t, testCtx, farmerC))

	// A settled invite no longer shows on the dashboard
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/farmer/project-invitations/%s", farmerB.ID),
		nil,
		testutils.AuthHeaders(farmerB.Token),
	)
	require.Equal(t, http.StatusOK, w.Code)

	invitesB = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invitesB))
	assert.Empty(t, invitesB)

	// An invite cannot be answered twice
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/farmer/respond-to-invitation/%s", inviteB),
		models.RespondToInviteRequest{Response: "rejected"},
		testutils.AuthHeaders(farmerB.Token),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRespondToInvitationValidation(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Only the two literal responses are allowed
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/farmer/respond-to-invitation/00000000-0000-0000-0000-000000000000",
		models.RespondToInviteRequest{Response: "maybe"},
		testutils.AuthHeaders(testCtx.Farmer.Token),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A valid response to an unknown invite is a 404
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/farmer/respond-to-invitation/00000000-0000-0000-0000-000000000000",
		models.RespondToInviteRequest{Response: "accepted"},
		testutils.AuthHeaders(testCtx.Farmer.Token),
	)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
