package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hemant101104/MovieStream/internal/config"
	"github.com/hemant101104/MovieStream/internal/registry"
	"github.com/hemant101104/MovieStream/internal/store"
	"github.com/hemant101104/MovieStream/internal/ws"
)

func testEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.Config{Port: "0", JWTSecret: "test-secret", Env: "dev", AccessTokenTTLMinutes: 15}
	st := store.NewMemory()
	reg := registry.New(st)
	hub := ws.NewHub(reg)
	return SetupRouter(cfg, st, reg, hub)
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestHealthz(t *testing.T) {
	engine := testEngine()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	engine := testEngine()

	w, _ := doJSON(t, engine, http.MethodGet, "/api/v1/rooms", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("GET /rooms without token = %d, want 401", w.Code)
	}

	w, _ = doJSON(t, engine, http.MethodPost, "/api/v1/rooms", "", map[string]interface{}{"name": "x"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("POST /rooms without token = %d, want 401", w.Code)
	}
}

func TestRegisterLoginRoomFlow(t *testing.T) {
	engine := testEngine()

	// 注册即返回凭证
	w, body := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username": "alice", "email": "alice@example.com", "password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register = %d, body %s", w.Code, w.Body.String())
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("register returned no token")
	}

	// 重复邮箱冲突
	w, _ = doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username": "alice2", "email": "alice@example.com", "password": "password123",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate register = %d, want 409", w.Code)
	}

	// 登录
	w, body = doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email": "alice@example.com", "password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d", w.Code)
	}
	if body["token"] == "" {
		t.Fatal("login returned no token")
	}

	// 错误密码
	w, _ = doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email": "alice@example.com", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login = %d, want 401", w.Code)
	}

	// 建房
	w, room := doJSON(t, engine, http.MethodPost, "/api/v1/rooms", token, map[string]interface{}{
		"name": "movie night", "isPrivate": false,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create room = %d, body %s", w.Code, w.Body.String())
	}
	code, _ := room["code"].(string)
	if len(code) != 6 {
		t.Fatalf("room code = %q, want 6 chars", code)
	}
	if room["hostUsername"] != "alice" {
		t.Errorf("hostUsername = %v, want alice", room["hostUsername"])
	}

	// 私有房间不出现在公开列表
	_, _ = doJSON(t, engine, http.MethodPost, "/api/v1/rooms", token, map[string]interface{}{
		"name": "secret", "isPrivate": true,
	})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w2 := httptest.NewRecorder()
	engine.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("list rooms = %d", w2.Code)
	}
	var rooms []map[string]interface{}
	if err := json.Unmarshal(w2.Body.Bytes(), &rooms); err != nil {
		t.Fatalf("decode rooms: %v", err)
	}
	if len(rooms) != 1 {
		t.Fatalf("public rooms = %d, want 1", len(rooms))
	}

	// 按码加入
	w, joined := doJSON(t, engine, http.MethodPost, "/api/v1/rooms/join", token, map[string]interface{}{
		"roomCode": code,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("join room = %d", w.Code)
	}
	if joined["code"] != code {
		t.Errorf("joined code = %v, want %v", joined["code"], code)
	}

	// 未知房间码
	w, _ = doJSON(t, engine, http.MethodPost, "/api/v1/rooms/join", token, map[string]interface{}{
		"roomCode": "ZZZZZZ",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("join unknown room = %d, want 404", w.Code)
	}
}

func TestCreateRoom_InvalidPayload(t *testing.T) {
	engine := testEngine()

	w, body := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username": "bob", "email": "bob@example.com", "password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register = %d", w.Code)
	}
	token := body["token"].(string)

	w, _ = doJSON(t, engine, http.MethodPost, "/api/v1/rooms", token, map[string]interface{}{"name": "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty name = %d, want 400", w.Code)
	}
}
