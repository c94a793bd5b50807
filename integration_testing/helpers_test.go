//go:build integration_test || all_tests

package integration_testing

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/users"

	"github.com/brianvoe/gofakeit/v6"
)

type testUser struct {
	Username string
	Email    string
	Password string
	Token    string
	ID       string
}

func newTestUser() *testUser {
	return &testUser{
		Username: gofakeit.Username() + gofakeit.DigitN(4),
		Email:    gofakeit.Email(),
		Password: gofakeit.Password(true, true, true, false, false, 12),
	}
}

func (s *IntegrationTestSuite) doRequest(method, path, token string, body any) (*http.Response, []byte) {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, serverEndpoint+path, reqBody)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, respBody
}

func (s *IntegrationTestSuite) decode(data []byte, v any) {
	s.Require().NoError(json.Unmarshal(data, v), string(data))
}

// registerAndLogin creates the user and fills in its id and token.
func (s *IntegrationTestSuite) registerAndLogin(u *testUser) {
	resp, body := s.doRequest(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": u.Username,
		"email":    u.Email,
		"password": u.Password,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	resp, body = s.doRequest(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    u.Email,
		"password": u.Password,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var login users.LoginResponse
	s.decode(body, &login)
	s.Require().NotEmpty(login.Token)
	s.Require().NotNil(login.User)
	u.Token = login.Token
	u.ID = login.User.ID
}

func (s *IntegrationTestSuite) countRows(table, userID string) int {
	var count int
	// table names come from the tests only
	err := s.DB.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE user_id = $1", userID).Scan(&count)
	s.Require().NoError(err)
	return count
}
