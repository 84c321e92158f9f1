package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"shop-service/internal/broker"
	"shop-service/internal/models"
	"shop-service/internal/service"
	"shop-service/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	router *gin.Engine
	store  *store.Store
}

func newTestApp(t *testing.T, failureRate float64) *testApp {
	t.Helper()

	s, err := store.NewStore("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.InitSchema(context.Background()))

	publisher := broker.NewEventPublisher(nil)
	auth := service.NewAuthService(s, publisher)
	catalog := service.NewCatalogService(s, nil)
	purchases := service.NewPurchaseService(s, auth, catalog, publisher, failureRate)

	router := gin.New()
	NewHandler(auth, catalog, purchases).SetupRoutes(router)

	return &testApp{router: router, store: s}
}

func (a *testApp) seedProduct(t *testing.T, id int64, name string, price float64, category string, stock int) {
	t.Helper()
	db := a.store.GetDB()
	_, err := db.Exec(db.Rebind("INSERT INTO products (id, name, price) VALUES (?, ?, ?)"), id, name, price)
	require.NoError(t, err)
	_, err = db.Exec(db.Rebind("INSERT INTO details (id, category, description, stock) VALUES (?, ?, ?, ?)"),
		id, category, name+" description", stock)
	require.NoError(t, err)
}

func (a *testApp) seedUser(t *testing.T, username, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, a.store.CreateUser(context.Background(), &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
	}))
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func TestGetProducts(t *testing.T) {
	app := newTestApp(t, 0)
	app.seedProduct(t, 1, "Mouse", 24.99, "electronics", 10)
	app.seedProduct(t, 2, "Keyboard", 89.99, "electronics", 5)

	rr := app.get("/getProducts")
	require.Equal(t, http.StatusOK, rr.Code)

	var products []models.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &products))
	require.Len(t, products, 2)
	assert.Equal(t, "Mouse", products[0].Name)
	assert.Equal(t, int64(2), products[1].ID)
}

func TestGetProductsEmptyCatalog(t *testing.T) {
	app := newTestApp(t, 0)

	rr := app.get("/getProducts")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestGetProductDetails(t *testing.T) {
	app := newTestApp(t, 0)
	app.seedProduct(t, 7, "Yoga Mat", 34.00, "sports", 4)

	rr := app.get("/getProductDetails/7")
	require.Equal(t, http.StatusOK, rr.Code)

	var detail models.ProductDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
	assert.Equal(t, "Yoga Mat", detail.Name)
	assert.Equal(t, "sports", detail.Category)
	assert.Equal(t, 4, detail.Stock)

	rr = app.get("/getProductDetails/99")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Product not found", rr.Body.String())

	rr = app.get("/getProductDetails/abc")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Product not found", rr.Body.String())
}

func TestSearchProducts(t *testing.T) {
	app := newTestApp(t, 0)
	app.seedProduct(t, 1, "Mouse", 24.99, "electronics", 10)
	app.seedProduct(t, 2, "Yoga Mat", 34.00, "sports", 4)

	rr := app.get("/searchProducts/sports")
	require.Equal(t, http.StatusOK, rr.Code)

	var refs []models.ProductRef
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &refs))
	require.Len(t, refs, 1)
	assert.Equal(t, int64(2), refs[0].ID)

	rr = app.get("/searchProducts/zeppelin")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "No products found.", rr.Body.String())
}

func TestFilterProducts(t *testing.T) {
	app := newTestApp(t, 0)
	app.seedProduct(t, 1, "Mouse", 24.99, "electronics", 10)
	app.seedProduct(t, 2, "Yoga Mat", 34.00, "sports", 4)

	rr := app.get("/filterProducts/electronics")
	require.Equal(t, http.StatusOK, rr.Code)

	var refs []models.ProductRef
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &refs))
	require.Len(t, refs, 1)
	assert.Equal(t, int64(1), refs[0].ID)

	// unknown category is an empty result, not an error
	rr = app.get("/filterProducts/unknown")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &refs))
	assert.Empty(t, refs)
}

func TestValidateLogin(t *testing.T) {
	app := newTestApp(t, 0)
	app.seedUser(t, "alice", "Str0ng!pass")

	rr := app.postForm("/validateLogin", url.Values{
		"username": {"alice"},
		"password": {"Str0ng!pass"},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "alice", rr.Body.String())

	rr = app.postForm("/validateLogin", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid username or password", rr.Body.String())

	rr = app.postForm("/validateLogin", url.Values{
		"username": {"nobody"},
		"password": {"Str0ng!pass"},
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "User not found", rr.Body.String())
}

func TestNewUser(t *testing.T) {
	app := newTestApp(t, 0)

	valid := url.Values{
		"username":        {"alice"},
		"email":           {"alice@example.com"},
		"password":        {"Str0ng!pass"},
		"confirmPassword": {"Str0ng!pass"},
	}
	rr := app.postForm("/newUser", valid)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "User created successfully.", rr.Body.String())

	// the new account can log in
	rr = app.postForm("/validateLogin", url.Values{
		"username": {"alice"},
		"password": {"Str0ng!pass"},
	})
	assert.Equal(t, http.StatusOK, rr.Code)

	// duplicate username is rejected verbatim
	rr = app.postForm("/newUser", valid)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Username already exists.", rr.Body.String())
}

func TestNewUserValidationMessages(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{
			name: "missing fields",
			form: url.Values{"username": {"alice"}},
			want: "Missing fields.",
		},
		{
			name: "password mismatch",
			form: url.Values{
				"username":        {"alice"},
				"email":           {"alice@example.com"},
				"password":        {"Str0ng!pass"},
				"confirmPassword": {"Different1!"},
			},
			want: "Passwords do not match.",
		},
		{
			name: "invalid email",
			form: url.Values{
				"username":        {"alice"},
				"email":           {"not an email"},
				"password":        {"Str0ng!pass"},
				"confirmPassword": {"Str0ng!pass"},
			},
			want: "Invalid email.",
		},
		{
			name: "weak password",
			form: url.Values{
				"username":        {"alice"},
				"email":           {"alice@example.com"},
				"password":        {"weakpass"},
				"confirmPassword": {"weakpass"},
			},
			want: "Password is not strong enough.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t, 0)
			rr := app.postForm("/newUser", tc.form)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tc.want, rr.Body.String())
		})
	}
}

func TestValidateTransaction(t *testing.T) {
	app := newTestApp(t, 0) // failure draw disabled
	app.seedUser(t, "alice", "Str0ng!pass")
	app.seedProduct(t, 5, "Coffee Kit", 42.00, "kitchen", 2)

	form := url.Values{
		"username":  {"alice"},
		"password":  {"Str0ng!pass"},
		"productID": {"5"},
	}
	rr := app.postForm("/validateTransaction", form)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]int64
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotZero(t, resp["transactionID"])

	// a second purchase gets a different id
	rr = app.postForm("/validateTransaction", form)
	require.Equal(t, http.StatusOK, rr.Code)
	var resp2 map[string]int64
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp2))
	assert.NotEqual(t, resp["transactionID"], resp2["transactionID"])

	// stock is gone now
	rr = app.postForm("/validateTransaction", form)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "Product out of stock.", rr.Body.String())

	// unknown product
	form.Set("productID", "99")
	rr = app.postForm("/validateTransaction", form)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Product not found.", rr.Body.String())

	// bad credentials
	form.Set("productID", "5")
	form.Set("password", "wrong")
	rr = app.postForm("/validateTransaction", form)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Login failed.", rr.Body.String())

	form.Set("username", "nobody")
	rr = app.postForm("/validateTransaction", form)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "User not found.", rr.Body.String())
}

func TestValidateTransactionSimulatedFailure(t *testing.T) {
	app := newTestApp(t, 1) // every draw fails
	app.seedUser(t, "alice", "Str0ng!pass")
	app.seedProduct(t, 5, "Coffee Kit", 42.00, "kitchen", 2)

	rr := app.postForm("/validateTransaction", url.Values{
		"username":  {"alice"},
		"password":  {"Str0ng!pass"},
		"productID": {"5"},
	})
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, "Transaction failed.", rr.Body.String())

	// the failed draw left the stock alone
	rr = app.get("/getProductDetails/5")
	require.Equal(t, http.StatusOK, rr.Code)
	var detail models.ProductDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
	assert.Equal(t, 2, detail.Stock)
}

func TestTransactionHistory(t *testing.T) {
	app := newTestApp(t, 0)
	app.seedUser(t, "alice", "Str0ng!pass")
	app.seedProduct(t, 5, "Coffee Kit", 42.00, "kitchen", 3)

	for i := 0; i < 2; i++ {
		rr := app.postForm("/validateTransaction", url.Values{
			"username":  {"alice"},
			"password":  {"Str0ng!pass"},
			"productID": {"5"},
		})
		require.Equal(t, http.StatusOK, rr.Code, "purchase %d", i)
	}

	rr := app.postForm("/transactionHistory", url.Values{
		"username": {"alice"},
		"password": {"Str0ng!pass"},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var history []models.Transaction
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &history))
	require.Len(t, history, 2)
	assert.Equal(t, "Coffee Kit", history[0].ProductName)
	assert.Equal(t, 42.00, history[0].Price)
	assert.Less(t, history[0].TransactionID, history[1].TransactionID)

	rr = app.postForm("/transactionHistory", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Login failed.", rr.Body.String())

	rr = app.postForm("/transactionHistory", url.Values{
		"username": {"nobody"},
		"password": {"whatever"},
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "User not found.", rr.Body.String())
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(t, 0)

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		rr := app.get(path)
		assert.Equal(t, http.StatusOK, rr.Code, fmt.Sprintf("GET %s", path))
	}
}
