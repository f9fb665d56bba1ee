package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/entity"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/repository"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/service"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/testutil"
	"go.uber.org/zap"
)

func setupBomTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repo := repository.NewBomRepository(db)
	svc := service.NewBomService(repo, nil, "erp-files", zap.NewNop())
	h := NewBomHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/boms", h.ListBoms)
	api.POST("/boms", h.CreateBom)
	api.GET("/boms/:id", h.GetBom)
	api.PUT("/boms/:id", h.UpdateBom)
	api.POST("/boms/:id/approve", h.ApproveBom)
	api.POST("/boms/:id/close", h.CloseBom)
	api.POST("/boms/:id/import-csv", h.ImportCSV)
	api.DELETE("/boms/:id", h.DeleteBom)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestBomLifecycle(t *testing.T) {
	env := setupBomTest(t)
	token := testutil.DefaultTestToken()

	body := map[string]interface{}{
		"product_name": "Track Pants",
		"order_ref":    "SO-1001",
		"items": []map[string]interface{}{
			{
				"category":        "Fabric",
				"item_name":       "Main body",
				"fabric_name":     "Lycra",
				"fabric_color":    "Black",
				"fabric_gsm":      "200",
				"unit_of_measure": "kg",
				"qty_total":       100,
			},
			{
				"category":  "Item",
				"item_name": "Drawcord",
				"qty_total": 50,
			},
		},
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/boms", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != "draft" {
		t.Fatalf("expected status draft, got %v", data["status"])
	}
	bomID := data["id"].(string)

	// approve moves the BOM out of draft
	w2 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/boms/"+bomID+"/approve", nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	data2 := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	if data2["status"] != "approved" {
		t.Fatalf("expected status approved, got %v", data2["status"])
	}
	if data2["approved_at"] == nil {
		t.Fatal("expected approved_at to be set")
	}

	// editing an approved BOM is rejected
	w3 := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/boms/"+bomID,
		map[string]interface{}{"product_name": "Renamed"}, token)
	if w3.Code == http.StatusOK {
		t.Fatal("expected edit of approved BOM to fail")
	}

	// close ends the lifecycle
	w4 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/boms/"+bomID+"/close", nil, token)
	if w4.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w4.Code, w4.Body.String())
	}
	data4 := testutil.ParseResponse(w4)["data"].(map[string]interface{})
	if data4["status"] != "closed" {
		t.Fatalf("expected status closed, got %v", data4["status"])
	}
}

func TestBomApproveWithoutLines(t *testing.T) {
	env := setupBomTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/boms",
		map[string]interface{}{"product_name": "Empty Style"}, token)
	bomID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w2 := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/boms/"+bomID+"/approve", nil, token)
	if w2.Code == http.StatusOK {
		t.Fatal("expected approval of BOM without lines to fail")
	}
}

func TestBomImportCSV(t *testing.T) {
	env := setupBomTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/boms",
		map[string]interface{}{"product_name": "Imported Style"}, token)
	bomID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	csv := "Category,Item Name,Fabric Name,Fabric Color,GSM,Unit,Qty Total,To Order,Remarks\n" +
		"Fabric,Main body,Lycra,Black,200,kg,100,80,\n" +
		"Item,Drawcord,,,,pcs,50,,\n" +
		"Trim,Zipper,,,,,,,\n"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "bom.csv")
	part.Write([]byte(csv))
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/boms/"+bomID+"/import-csv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := testutil.ParseResponse(rec)["data"].(map[string]interface{})
	if result["created"].(float64) != 2 {
		t.Fatalf("expected 2 created lines, got %v", result["created"])
	}
	if result["skipped"].(float64) != 1 {
		t.Fatalf("expected 1 skipped line, got %v", result["skipped"])
	}

	var count int64
	env.DB.Model(&entity.BomItem{}).Where("bom_id = ?", bomID).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 persisted lines, got %d", count)
	}
}
