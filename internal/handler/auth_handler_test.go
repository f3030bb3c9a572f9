package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
	"github.com/mizow1/satelite-column11/internal/model"
	"golang.org/x/crypto/bcrypt"
)

func newAuthRouter(users *fakeUserStore, sender *fakeSender) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewAuthHandler(users, sender)

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/reset-request", h.ResetRequest)
	r.POST("/auth/reset-confirm", h.ResetConfirm)
	return r
}

func TestRegister_CreatesUserAndSendsWelcome(t *testing.T) {
	users := newFakeUserStore()
	sender := &fakeSender{}

	r := newAuthRouter(users, sender)

	w := httptest.NewRecorder()
	body := `{"email":"new@example.com","password":"secret1","name":"New User"}`
	req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, len(users.created))
	assert.Equal(t, []string{"new@example.com"}, sender.sent)

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "new-user", res["user_id"])
	assert.Equal(t, "new-token", res["api_token"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	users.duplicateMail = true

	r := newAuthRouter(users, &fakeSender{})

	w := httptest.NewRecorder()
	body := `{"email":"taken@example.com","password":"secret1","name":"Name"}`
	req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_ShortPassword(t *testing.T) {
	r := newAuthRouter(newFakeUserStore(), &fakeSender{})

	w := httptest.NewRecorder()
	body := `{"email":"a@example.com","password":"abc","name":"Name"}`
	req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_WelcomeEmailFailureIsNotFatal(t *testing.T) {
	users := newFakeUserStore()
	sender := &fakeSender{err: errSMTPDown}

	r := newAuthRouter(users, sender)

	w := httptest.NewRecorder()
	body := `{"email":"new@example.com","password":"secret1","name":"New User"}`
	req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestLogin(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	users := newFakeUserStore()
	users.byEmail["u1@example.com"] = &model.User{
		ID:           "u1",
		Email:        "u1@example.com",
		PasswordHash: string(hash),
		APIToken:     "token-1",
	}

	r := newAuthRouter(users, &fakeSender{})

	w := httptest.NewRecorder()
	body := `{"email":"u1@example.com","password":"secret1"}`
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "token-1", res["api_token"])
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	users := newFakeUserStore()
	users.byEmail["u1@example.com"] = &model.User{Email: "u1@example.com", PasswordHash: string(hash)}

	r := newAuthRouter(users, &fakeSender{})

	w := httptest.NewRecorder()
	body := `{"email":"u1@example.com","password":"wrong"}`
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	r := newAuthRouter(newFakeUserStore(), &fakeSender{})

	w := httptest.NewRecorder()
	body := `{"email":"nobody@example.com","password":"secret1"}`
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResetRequest_SendsTokenEmail(t *testing.T) {
	users := newFakeUserStore()
	users.byEmail["u1@example.com"] = &model.User{ID: "u1", Email: "u1@example.com", Name: "One"}
	sender := &fakeSender{}

	r := newAuthRouter(users, sender)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/reset-request", strings.NewReader(`{"email":"u1@example.com"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"u1@example.com"}, sender.sent)
	assert.NotEqual(t, "", users.resetTokens["u1"])
}

func TestResetRequest_UnknownEmailIsIndistinguishable(t *testing.T) {
	sender := &fakeSender{}
	r := newAuthRouter(newFakeUserStore(), sender)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/reset-request", strings.NewReader(`{"email":"nobody@example.com"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, len(sender.sent))
}

func TestResetConfirm(t *testing.T) {
	users := newFakeUserStore()
	users.byResetToken["reset-1"] = &model.User{ID: "u1", Email: "u1@example.com"}

	r := newAuthRouter(users, &fakeSender{})

	w := httptest.NewRecorder()
	body := `{"token":"reset-1","password":"newsecret"}`
	req := httptest.NewRequest("POST", "/auth/reset-confirm", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, "", users.passwords["u1"])
}

func TestResetConfirm_BadToken(t *testing.T) {
	r := newAuthRouter(newFakeUserStore(), &fakeSender{})

	w := httptest.NewRecorder()
	body := `{"token":"expired","password":"newsecret"}`
	req := httptest.NewRequest("POST", "/auth/reset-confirm", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
