package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/magnus-copo/investor-api/internal/constants"
	"github.com/magnus-copo/investor-api/internal/database"
	"github.com/magnus-copo/investor-api/internal/dto"
	"github.com/magnus-copo/investor-api/internal/models"
	"github.com/magnus-copo/investor-api/internal/notify"
	"github.com/magnus-copo/investor-api/internal/repository"
	"github.com/magnus-copo/investor-api/internal/services"
)

// SpendingHandlerTestSuite defines the test suite for SpendingHandler
type SpendingHandlerTestSuite struct {
	suite.Suite
	db              *gorm.DB
	handler         *SpendingHandler
	spendingService *services.SpendingService
}

// SetupTest runs before each test
func (suite *SpendingHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.SpendingRecord{},
		&models.SpendingVote{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	projectRepo := repository.NewProjectRepository(suite.db)
	spendingRepo := repository.NewSpendingRepository(suite.db)
	suite.spendingService = services.NewSpendingService(spendingRepo, projectRepo, notify.NoopNotifier{})
	suite.handler = NewSpendingHandler(suite.spendingService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *SpendingHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data
func (suite *SpendingHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Name:         email,
		Email:        email,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *SpendingHandlerTestSuite) createTestProject(name string, creatorID uint64) *models.Project {
	project := &models.Project{
		Name:      name,
		CreatedBy: creatorID,
	}
	suite.db.Create(project)
	suite.db.Create(&models.ProjectMember{
		ProjectID: project.ID,
		UserID:    creatorID,
		Role:      models.MemberRoleAdmin,
		JoinedAt:  time.Now(),
	})
	return project
}

func (suite *SpendingHandlerTestSuite) createTestMember(projectID, userID uint64) {
	suite.db.Create(&models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      models.MemberRoleInvestor,
		JoinedAt:  time.Now(),
	})
}

func (suite *SpendingHandlerTestSuite) proposeTestSpending(projectID, proposerID uint64) *models.SpendingRecord {
	record, err := suite.spendingService.Propose(services.ProposeSpendingInput{
		ProjectID:   projectID,
		ProposerID:  proposerID,
		Amount:      decimal.RequireFromString("1500"),
		Description: "Quarterly audit",
		Category:    models.SpendingCategoryService,
		VendorName:  "Audit & Co",
	})
	suite.Require().NoError(err)
	return record
}

// Helper function to create authenticated context
func (suite *SpendingHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

// Helpers to simulate the access middleware
func (suite *SpendingHandlerTestSuite) setProjectContext(c *gin.Context, projectID uint64) {
	var project models.Project
	suite.Require().NoError(suite.db.Preload("Members").First(&project, projectID).Error)
	c.Set("project", project)
}

func (suite *SpendingHandlerTestSuite) setSpendingContext(c *gin.Context, recordID uint64) {
	var record models.SpendingRecord
	suite.Require().NoError(suite.db.First(&record, recordID).Error)
	c.Set("spending_record", record)
}

func (suite *SpendingHandlerTestSuite) TestProposeSpending_Success() {
	user := suite.createTestUser("owner@example.com")
	other := suite.createTestUser("other@example.com")
	project := suite.createTestProject("Test Project", user.ID)
	suite.createTestMember(project.ID, other.ID)

	requestBody := map[string]interface{}{
		"amount":      "2500.50",
		"description": "Server hosting",
		"category":    "service",
		"vendor_name": "CloudCorp",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/projects/1/spendings", body, user.ID)
	suite.setProjectContext(c, project.ID)

	suite.handler.ProposeSpending(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.SpendingRecordDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.SpendingStatusPending, response.Status)
	assert.Equal(suite.T(), 2, response.TotalMembers)
	assert.NotEmpty(suite.T(), response.ReferenceCode)
}

func (suite *SpendingHandlerTestSuite) TestProposeSpending_NegativeAmount() {
	user := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Test Project", user.ID)

	requestBody := map[string]interface{}{
		"amount":      "-100",
		"description": "Bogus",
		"category":    "service",
		"vendor_name": "CloudCorp",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/projects/1/spendings", body, user.ID)
	suite.setProjectContext(c, project.ID)

	suite.handler.ProposeSpending(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "INVALID_AMOUNT", response["code"])
}

func (suite *SpendingHandlerTestSuite) TestProposeSpending_MissingCategoryDetails() {
	user := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Test Project", user.ID)

	requestBody := map[string]interface{}{
		"amount":      "100",
		"description": "Panels",
		"category":    "product",
		// product_name and quantity missing
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/projects/1/spendings", body, user.ID)
	suite.setProjectContext(c, project.ID)

	suite.handler.ProposeSpending(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *SpendingHandlerTestSuite) TestListSpendings_FiltersByStatus() {
	user := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Test Project", user.ID)
	suite.proposeTestSpending(project.ID, user.ID) // single member, auto-approved

	c, w := suite.createAuthContext("GET", "/api/projects/1/spendings", nil, user.ID)
	c.Request.URL.RawQuery = "status=approved"
	suite.setProjectContext(c, project.ID)

	suite.handler.ListSpendings(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), response, "spendings")
	assert.Contains(suite.T(), response, "pagination")

	spendings := response["spendings"].([]interface{})
	assert.Len(suite.T(), spendings, 1)

	// Nothing pending for this project
	c, w = suite.createAuthContext("GET", "/api/projects/1/spendings", nil, user.ID)
	c.Request.URL.RawQuery = "status=pending"
	suite.setProjectContext(c, project.ID)

	suite.handler.ListSpendings(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	spendings = response["spendings"].([]interface{})
	assert.Empty(suite.T(), spendings)
}

func (suite *SpendingHandlerTestSuite) TestListSpendings_InvalidStatusFilter() {
	user := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Test Project", user.ID)

	c, w := suite.createAuthContext("GET", "/api/projects/1/spendings", nil, user.ID)
	c.Request.URL.RawQuery = "status=archived"
	suite.setProjectContext(c, project.ID)

	suite.handler.ListSpendings(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *SpendingHandlerTestSuite) TestApproveSpending_ReachesUnanimity() {
	owner := suite.createTestUser("owner@example.com")
	voter := suite.createTestUser("voter@example.com")
	project := suite.createTestProject("Test Project", owner.ID)
	suite.createTestMember(project.ID, voter.ID)

	record := suite.proposeTestSpending(project.ID, owner.ID)
	suite.Require().Equal(models.SpendingStatusPending, record.Status)

	c, w := suite.createAuthContext("POST", "/api/spendings/1/approve", nil, voter.ID)
	suite.setSpendingContext(c, record.ID)

	suite.handler.ApproveSpending(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.SpendingRecordDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.SpendingStatusApproved, response.Status)
	assert.Equal(suite.T(), 2, response.ApprovalCount)
}

func (suite *SpendingHandlerTestSuite) TestRejectSpending_Vetoes() {
	owner := suite.createTestUser("owner@example.com")
	voter := suite.createTestUser("voter@example.com")
	project := suite.createTestProject("Test Project", owner.ID)
	suite.createTestMember(project.ID, voter.ID)

	record := suite.proposeTestSpending(project.ID, owner.ID)

	c, w := suite.createAuthContext("POST", "/api/spendings/1/reject", nil, voter.ID)
	suite.setSpendingContext(c, record.ID)

	suite.handler.RejectSpending(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.SpendingRecordDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.SpendingStatusRejected, response.Status)
	suite.Require().NotNil(response.RejectedBy)
	assert.Equal(suite.T(), voter.ID, *response.RejectedBy)
}

func (suite *SpendingHandlerTestSuite) TestVoteOnTerminalRecord_Conflict() {
	owner := suite.createTestUser("owner@example.com")
	voter := suite.createTestUser("voter@example.com")
	project := suite.createTestProject("Test Project", owner.ID)
	suite.createTestMember(project.ID, voter.ID)

	record := suite.proposeTestSpending(project.ID, owner.ID)
	_, err := suite.spendingService.Reject(record.ID, voter.ID)
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("POST", "/api/spendings/1/approve", nil, owner.ID)
	suite.setSpendingContext(c, record.ID)

	suite.handler.ApproveSpending(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "INVALID_STATE", response["code"])
}

func (suite *SpendingHandlerTestSuite) TestAttachNote_Success() {
	owner := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Test Project", owner.ID)
	record := suite.proposeTestSpending(project.ID, owner.ID)

	requestBody := map[string]interface{}{
		"note": "Receipt attached to the shared drive",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/spendings/1/note", body, owner.ID)
	suite.setSpendingContext(c, record.ID)

	suite.handler.AttachNote(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.SpendingRecordDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Receipt attached to the shared drive", response.Note)
}

func (suite *SpendingHandlerTestSuite) TestAttachNote_EmptyBody() {
	owner := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Test Project", owner.ID)
	record := suite.proposeTestSpending(project.ID, owner.ID)

	c, w := suite.createAuthContext("POST", "/api/spendings/1/note", []byte("{}"), owner.ID)
	suite.setSpendingContext(c, record.ID)

	suite.handler.AttachNote(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *SpendingHandlerTestSuite) TestGetSpending_IncludesVotes() {
	owner := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Test Project", owner.ID)
	record := suite.proposeTestSpending(project.ID, owner.ID)

	c, w := suite.createAuthContext("GET", "/api/spendings/1", nil, owner.ID)
	suite.setSpendingContext(c, record.ID)

	suite.handler.GetSpending(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.SpendingRecordDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), record.ID, response.ID)
	assert.Len(suite.T(), response.Votes, 1)
	assert.Equal(suite.T(), owner.ID, response.Votes[0].User.ID)
}

// TestSuite runs the test suite
func TestSpendingHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(SpendingHandlerTestSuite))
}
