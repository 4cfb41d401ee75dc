package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/yshebel/customerhub/internal/model"
	"github.com/yshebel/customerhub/internal/validation"

	svcMocks "github.com/yshebel/customerhub/internal/service/mocks"
)

type userHandlerTestSuite struct {
	suite.Suite
	e           *echo.Echo
	handler     *UserHTTPHandler
	userSvcMock *svcMocks.UserService
	user        *model.User
}

func (s *userHandlerTestSuite) SetupSuite() {
	now := time.Date(2023, time.March, 10, 12, 0, 0, 0, time.UTC)
	s.user = &model.User{
		ID:           "424aff28-787c-4d21-a0be-1a95e278f084",
		Email:        "operator@somemail.com",
		Username:     "operator",
		Role:         model.RoleUser,
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *userHandlerTestSuite) SetupTest() {
	validator, err := validation.Echo()
	s.Require().NoError(err, "failed to build validator")

	s.e = echo.New()
	s.e.Validator = validator
	s.userSvcMock = svcMocks.NewUserService(s.T())
	s.handler = NewUserHTTPHandler(s.userSvcMock)
}

func (s *userHandlerTestSuite) request(method string, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	return s.e.NewContext(req, rec), rec
}

func (s *userHandlerTestSuite) TestPostSuccessfully() {
	s.userSvcMock.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "operator@somemail.com" && u.Role == model.RoleUser
	}), "secret-pass").Return(s.user, nil).Once()

	c, rec := s.request(http.MethodPost, "/api/users", `{"email":"operator@somemail.com","username":"operator","password":"secret-pass","role":"user"}`)

	s.T().Log("created user must be returned with 201 and no credential material")
	{
		s.Require().NoError(s.handler.Post(c), "no error must be raised")
		s.Assert().Equal(http.StatusCreated, rec.Code, "status must be 201")

		body := rec.Body.String()
		s.Assert().NotContains(body, "password", "serialized user must not expose password field")
		s.Assert().NotContains(body, s.user.PasswordHash, "serialized user must not expose hash")
	}
}

func (s *userHandlerTestSuite) TestPostWeakPassword() {
	c, _ := s.request(http.MethodPost, "/api/users", `{"email":"operator@somemail.com","password":"abc","role":"user"}`)

	s.T().Log("too short password must be rejected before service call")
	{
		err := s.handler.Post(c)
		var payloadErr *validation.PayloadError
		s.Assert().ErrorAs(err, &payloadErr, "payload error must be raised")
		s.userSvcMock.AssertNotCalled(s.T(), "Create", mock.Anything, mock.AnythingOfType("*model.User"), mock.AnythingOfType("string"))
	}
}

func (s *userHandlerTestSuite) TestPostUnknownRole() {
	c, _ := s.request(http.MethodPost, "/api/users", `{"email":"operator@somemail.com","password":"secret-pass","role":"root"}`)

	s.T().Log("role outside of allowed set must be rejected")
	{
		err := s.handler.Post(c)
		var payloadErr *validation.PayloadError
		s.Assert().ErrorAs(err, &payloadErr, "payload error must be raised")
	}
}

func (s *userHandlerTestSuite) TestGetSerializesWithoutSecret() {
	s.userSvcMock.On("FindByID", mock.Anything, s.user.ID).Return(s.user, nil).Once()

	c, rec := s.request(http.MethodGet, "/api/users/"+s.user.ID, "")
	c.SetParamNames("id")
	c.SetParamValues(s.user.ID)

	s.T().Log("serialized user must carry profile fields only")
	{
		s.Require().NoError(s.handler.Get(c), "no error must be raised")
		s.Assert().Equal(http.StatusOK, rec.Code, "status must be 200")

		var res map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res), "response must be valid json")
		s.Assert().Equal("operator", res["username"], "username must be serialized")
		s.Assert().Equal("user", res["role"], "role must be serialized")
		s.Assert().NotContains(res, "passwordHash", "hash must not be serialized")
	}
}

func (s *userHandlerTestSuite) TestPutRoleChange() {
	s.userSvcMock.On("Update", mock.Anything, s.user.ID, mock.MatchedBy(func(p model.UserPatch) bool {
		return p.Role != nil && *p.Role == model.RoleAdmin && p.Email == nil && p.Password == nil
	})).Return(s.user, nil).Once()

	c, rec := s.request(http.MethodPut, "/api/users/"+s.user.ID, `{"role":"admin"}`)
	c.SetParamNames("id")
	c.SetParamValues(s.user.ID)

	s.T().Log("only role must be patched")
	{
		s.Require().NoError(s.handler.Put(c), "no error must be raised")
		s.Assert().Equal(http.StatusOK, rec.Code, "status must be 200")
	}
}

func (s *userHandlerTestSuite) TestDeleteByIDNoContent() {
	s.userSvcMock.On("DeleteByID", mock.Anything, s.user.ID).Return(nil).Once()

	c, rec := s.request(http.MethodDelete, "/api/users/"+s.user.ID, "")
	c.SetParamNames("id")
	c.SetParamValues(s.user.ID)

	s.T().Log("delete must respond with 204 and empty body")
	{
		s.Require().NoError(s.handler.DeleteByID(c), "no error must be raised")
		s.Assert().Equal(http.StatusNoContent, rec.Code, "status must be 204")
	}
}

// start user handler test suite
func TestUserHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(userHandlerTestSuite))
}
