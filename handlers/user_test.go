package handlers_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetMyProfile(t *testing.T) {
	e := newEnv()
	_, token := e.seedUser("Ann", "ann@x.com")

	createPost(t, e, token, map[string]interface{}{"title": "t", "content": "c"})

	resp := e.do(http.MethodGet, "/api/users/me", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	body := decode(resp)
	user := body["user"].(map[string]interface{})
	if user["email"] != "ann@x.com" {
		t.Fatalf("unexpected profile: %v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatal("password hash must not appear in responses")
	}
	if posts := body["posts"].([]interface{}); len(posts) != 1 {
		t.Fatalf("expected 1 post in profile, got %d", len(posts))
	}
}

func TestUpdateProfileNameOnly(t *testing.T) {
	e := newEnv()
	userID, token := e.seedUser("Ann", "ann@x.com")

	var form bytes.Buffer
	w := multipart.NewWriter(&form)
	w.WriteField("name", "Annabel")
	w.Close()

	req := httptest.NewRequest(http.MethodPut, "/api/users/update", &form)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	user, _ := e.users.ByID(context.Background(), userID)
	if user.Name != "Annabel" {
		t.Fatalf("name not updated: %q", user.Name)
	}
	if user.Email != "ann@x.com" || user.Avatar != nil {
		t.Fatalf("unrelated fields changed: %+v", user)
	}
}

func TestUpdateProfileAvatarReplacesOld(t *testing.T) {
	e := newEnv()
	userID, token := e.seedUser("Ann", "ann@x.com")

	upload := func() {
		var form bytes.Buffer
		w := multipart.NewWriter(&form)
		f, _ := w.CreateFormFile("avatar", "me.png")
		f.Write([]byte("fake image bytes"))
		w.Close()

		req := httptest.NewRequest(http.MethodPut, "/api/users/update", &form)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		e.router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
		}
	}

	upload()
	user, _ := e.users.ByID(context.Background(), userID)
	if user.Avatar == nil {
		t.Fatal("avatar not stored")
	}
	first := user.Avatar.PublicID

	upload()
	if len(e.media.destroyed) != 1 || e.media.destroyed[0] != first {
		t.Fatalf("old avatar not destroyed: %v", e.media.destroyed)
	}
}

func TestGetStats(t *testing.T) {
	e := newEnv()
	_, annToken := e.seedUser("Ann", "ann@x.com")
	_, bobToken := e.seedUser("Bob", "bob@x.com")

	p1 := createPost(t, e, annToken, map[string]interface{}{"title": "a", "content": "c"})
	createPost(t, e, annToken, map[string]interface{}{"title": "b", "content": "c"})

	e.do(http.MethodPut, "/api/posts/"+p1.Hex()+"/like", bobToken, nil)
	addComment(t, e, annToken, p1.Hex(), "self comment")

	resp := e.do(http.MethodGet, "/api/users/stats", annToken, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	body := decode(resp)
	if body["postCount"].(float64) != 2 {
		t.Fatalf("postCount: %v", body["postCount"])
	}
	if body["likeCount"].(float64) != 1 {
		t.Fatalf("likeCount: %v", body["likeCount"])
	}
	if body["commentCount"].(float64) != 1 {
		t.Fatalf("commentCount: %v", body["commentCount"])
	}
}

func TestUploadImage(t *testing.T) {
	e := newEnv()
	_, token := e.seedUser("Ann", "ann@x.com")

	var form bytes.Buffer
	w := multipart.NewWriter(&form)
	f, _ := w.CreateFormFile("image", "pic.png")
	f.Write([]byte("fake image bytes"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &form)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	body := decode(resp)
	if body["url"] == "" || body["public_id"] == "" {
		t.Fatalf("expected asset reference, got %v", body)
	}
}

func TestUploadImageRequiresFile(t *testing.T) {
	e := newEnv()
	_, token := e.seedUser("Ann", "ann@x.com")

	resp := e.do(http.MethodPost, "/api/upload", token, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
