package handler

import (
	"net/http"
	"testing"

	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/entity"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/repository"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/service"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/testutil"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/middleware"
)

func setupSupplierTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repo := repository.NewSupplierRepository(db)
	svc := service.NewSupplierService(repo)
	h := NewSupplierHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/suppliers", h.ListSuppliers)
	api.POST("/suppliers", h.CreateSupplier)
	api.GET("/suppliers/:id", h.GetSupplier)
	api.PUT("/suppliers/:id", h.UpdateSupplier)
	api.POST("/suppliers/:id/score", h.ScoreSupplier)
	api.DELETE("/suppliers/:id", middleware.RequireRole("erp_admin"), h.DeleteSupplier)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestSupplierCreateAndScore(t *testing.T) {
	env := setupSupplierTest(t)
	token := testutil.DefaultTestToken()

	body := map[string]interface{}{
		"name":          "Shree Fabrics",
		"type":          "FABRIC",
		"contact_name":  "Ramesh",
		"phone":         "9876543210",
		"gst_number":    "27AAACS1234A1Z5",
		"payment_terms": "Net 30",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/suppliers", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["supplier_code"] != "SUP-0001" {
		t.Fatalf("expected supplier_code SUP-0001, got %v", data["supplier_code"])
	}
	if data["status"] != "active" {
		t.Fatalf("expected status active, got %v", data["status"])
	}
	supplierID := data["id"].(string)

	// Score the supplier: 0.4*90 + 0.3*80 + 0.2*70 + 0.1*100 = 84 → rating B
	scoreBody := map[string]interface{}{
		"quality_score":  90,
		"delivery_score": 80,
		"price_score":    70,
		"service_score":  100,
	}
	w2 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/suppliers/"+supplierID+"/score", scoreBody, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w2.Code, w2.Body.String())
	}

	resp2 := testutil.ParseResponse(w2)
	data2 := resp2["data"].(map[string]interface{})
	if data2["overall_score"].(float64) != 84 {
		t.Fatalf("expected overall_score 84, got %v", data2["overall_score"])
	}
	if data2["rating"] != "B" {
		t.Fatalf("expected rating B, got %v", data2["rating"])
	}
}

func TestSupplierListFilters(t *testing.T) {
	env := setupSupplierTest(t)
	token := testutil.DefaultTestToken()

	testutil.SeedSupplier(t, env.DB, "sup-1", "SUP-0001", "Shree Fabrics")
	testutil.SeedSupplier(t, env.DB, "sup-2", "SUP-0002", "Delhi Trims")

	inactive := testutil.SeedSupplier(t, env.DB, "sup-3", "SUP-0003", "Old Mills")
	env.DB.Model(&entity.Supplier{}).Where("id = ?", inactive.ID).
		Update("status", entity.SupplierStatusInactive)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/suppliers?status=active", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("expected 2 active suppliers, got %d", len(items))
	}

	// search matches name case-insensitively
	w2 := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/suppliers?search=trims", nil, token)
	resp2 := testutil.ParseResponse(w2)
	items2 := resp2["data"].(map[string]interface{})["items"].([]interface{})
	if len(items2) != 1 {
		t.Fatalf("expected 1 match for 'trims', got %d", len(items2))
	}
}

func TestSupplierDeleteRequiresAdmin(t *testing.T) {
	env := setupSupplierTest(t)

	supplier := testutil.SeedSupplier(t, env.DB, "sup-1", "SUP-0001", "Shree Fabrics")

	// plain buyer role is rejected
	buyerToken := testutil.GenerateTestToken("buyer-1", "Buyer", "buyer@test.com", []string{"erp_buyer"})
	w := testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/suppliers/"+supplier.ID, nil, buyerToken)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d: %s", w.Code, w.Body.String())
	}

	// admin succeeds, and the supplier disappears from listings
	w2 := testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/suppliers/"+supplier.ID, nil, testutil.DefaultTestToken())
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin delete, got %d: %s", w2.Code, w2.Body.String())
	}

	w3 := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/suppliers/"+supplier.ID, nil, testutil.DefaultTestToken())
	if w3.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d: %s", w3.Code, w3.Body.String())
	}
}

func TestSupplierUnauthorized(t *testing.T) {
	env := setupSupplierTest(t)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/suppliers", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}
