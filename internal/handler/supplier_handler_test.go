package handler

import (
	"net/http"
	"testing"

	"github.com/DavidwithD/InventoryHub/internal/repository"
	"github.com/DavidwithD/InventoryHub/internal/service"
	"github.com/DavidwithD/InventoryHub/internal/testutil"
	"github.com/gin-gonic/gin"
)

func setupSupplierTest(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := service.NewSupplierService(repository.NewSupplierRepository(db))
	h := NewSupplierHandler(svc)

	router := testutil.SetupRouter()
	suppliers := router.Group("/api/v1/suppliers")
	suppliers.GET("", h.List)
	suppliers.POST("", h.Create)
	suppliers.GET("/:id", h.Get)
	suppliers.PUT("/:id", h.Update)
	suppliers.DELETE("/:id", h.Delete)
	return router
}

func TestSupplierCreateAndGet(t *testing.T) {
	router := setupSupplierTest(t)

	w := testutil.DoRequest(router, "POST", "/api/v1/suppliers", map[string]interface{}{"name": "测试供应商"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 0 {
		t.Errorf("code = %v, want 0", resp["code"])
	}
	data := resp["data"].(map[string]interface{})
	if data["name"] != "测试供应商" {
		t.Errorf("name = %v", data["name"])
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/suppliers", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	resp = testutil.ParseResponse(w)
	items := resp["data"].([]interface{})
	if len(items) != 1 {
		t.Errorf("expected 1 supplier, got %d", len(items))
	}
}

func TestSupplierErrorStatusMapping(t *testing.T) {
	router := setupSupplierTest(t)

	// 缺失必填字段 → 400
	w := testutil.DoRequest(router, "POST", "/api/v1/suppliers", map[string]interface{}{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing name: expected 400, got %d", w.Code)
	}

	// 不存在 → 404
	w = testutil.DoRequest(router, "GET", "/api/v1/suppliers/9999", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing supplier: expected 404, got %d", w.Code)
	}

	// 重名 → 409
	testutil.DoRequest(router, "POST", "/api/v1/suppliers", map[string]interface{}{"name": "重复"})
	w = testutil.DoRequest(router, "POST", "/api/v1/suppliers", map[string]interface{}{"name": "重复"})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate name: expected 409, got %d: %s", w.Code, w.Body.String())
	}

	// 非法 ID → 400
	w = testutil.DoRequest(router, "GET", "/api/v1/suppliers/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id: expected 400, got %d", w.Code)
	}
}
