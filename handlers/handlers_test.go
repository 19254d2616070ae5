package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"prepwise-backend/config"
	"prepwise-backend/repository"
	"prepwise-backend/service"
	"prepwise-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubGenerator struct {
	generateFn func(ctx context.Context, prompt string) (string, error)
}

func (g *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.generateFn(ctx, prompt)
}

type testServer struct {
	router        *gin.Engine
	cfg           *config.Config
	interviewRepo repository.InterviewRepository
	questionRepo  repository.QuestionRepository
}

// newTestServer wires the full route table over in-memory repositories
// and a canned text generator, mirroring the production assembly.
func newTestServer(t *testing.T, modelOutput string) *testServer {
	t.Helper()

	cfg := &config.Config{
		Port:              "0",
		CookieName:        "sid",
		CookieSameSite:    "lax",
		VapiAPIKey:        "vapi-public-key",
		VapiWebhookSecret: "hook-secret",
		BcryptCost:        4,
	}

	userRepo := repository.NewMemoryUserRepository()
	profileRepo := repository.NewMemoryProfileRepository()
	interviewRepo := repository.NewMemoryInterviewRepository()
	questionRepo := repository.NewMemoryQuestionRepository()
	analyticsRepo := repository.NewMemoryAnalyticsRepository()
	sessionRepo := repository.NewMemorySessionRepository()

	avatarStorage, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	generator := &stubGenerator{
		generateFn: func(ctx context.Context, prompt string) (string, error) {
			return modelOutput, nil
		},
	}

	accountService := service.NewAccountService(
		service.AccountWithUserRepository(userRepo),
		service.AccountWithProfileRepository(profileRepo),
		service.AccountWithAnalyticsRepository(analyticsRepo),
		service.AccountWithSessionRepository(sessionRepo),
		service.AccountWithInterviewRepository(interviewRepo),
		service.AccountWithQuestionRepository(questionRepo),
		service.AccountWithAvatarStorage(avatarStorage),
		service.AccountWithBcryptCost(cfg.BcryptCost),
	)
	interviewService := service.NewInterviewService(
		service.WithInterviewRepository(interviewRepo),
		service.WithQuestionRepository(questionRepo),
		service.WithAnalyticsRepository(analyticsRepo),
		service.WithProfileRepository(profileRepo),
	)
	aiService := service.NewAIService(
		service.AIWithGenerator(generator),
		service.AIWithInterviewRepository(interviewRepo),
		service.AIWithQuestionRepository(questionRepo),
	)

	authHandler := NewAuthHandler(accountService, sessionRepo, cfg)
	profileHandler := NewProfileHandler(profileRepo, accountService, avatarStorage)
	interviewHandler := NewInterviewHandler(interviewService)
	aiHandler := NewAIHandler(aiService)
	webhookHandler := NewWebhookHandler(interviewService, cfg)

	requireSession := RequireSession(cfg, sessionRepo)

	r := gin.New()
	api := r.Group("/api")
	{
		api.POST("/auth/signup", authHandler.Signup)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/auth/me", authHandler.Me)
		api.GET("/auth/google", authHandler.OAuth("google"))
		api.GET("/auth/github", authHandler.OAuth("github"))
		api.PUT("/auth/password", requireSession, authHandler.ChangePassword)
		api.DELETE("/auth/account", requireSession, authHandler.DeleteAccount)

		api.GET("/profile/:id", requireSession, profileHandler.GetProfile)
		api.PUT("/profile/:id", requireSession, profileHandler.UpdateProfile)
		api.POST("/profile/:id/photo", requireSession, profileHandler.UploadPhoto)
		api.GET("/privacy", requireSession, profileHandler.GetPrivacy)
		api.PUT("/privacy", requireSession, profileHandler.UpdatePrivacy)
		api.GET("/account/export", requireSession, profileHandler.ExportData)

		api.GET("/interviews", requireSession, interviewHandler.ListInterviews)
		api.POST("/interviews", requireSession, interviewHandler.CreateInterview)
		api.PUT("/interviews/:id", requireSession, interviewHandler.UpdateInterview)
		api.GET("/interviews/:id/questions", requireSession, interviewHandler.ListQuestions)
		api.POST("/interviews/:id/questions", requireSession, interviewHandler.CreateQuestion)
		api.PUT("/questions/:id", requireSession, interviewHandler.UpdateQuestion)
		api.GET("/analytics", requireSession, interviewHandler.GetAnalytics)

		api.POST("/ai/questions", requireSession, aiHandler.GenerateQuestions)
		api.POST("/ai/feedback", requireSession, aiHandler.Feedback)

		api.POST("/vapi/webhook", webhookHandler.HandleWebhook)
		api.POST("/vapi/token", requireSession, webhookHandler.GetToken)
	}

	return &testServer{
		router:        r,
		cfg:           cfg,
		interviewRepo: interviewRepo,
		questionRepo:  questionRepo,
	}
}

func (s *testServer) request(t *testing.T, method, path, body, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: s.cfg.CookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("invalid uuid %q: %v", s, err)
	}
	return id
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) string {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	t.Fatalf("no %s cookie in response", name)
	return ""
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response %s: %v", rec.Body.String(), err)
	}
	return envelope.Data
}

func (s *testServer) signup(t *testing.T, email string) (cookie, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email": %q, "password": "secret123", "full_name": "Test User"}`, email)
	rec := s.request(t, http.MethodPost, "/api/auth/signup", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup returned %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	return sessionCookie(t, rec, s.cfg.CookieName), data["id"].(string)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t, "[]")

	cookie, userID := s.signup(t, "flow@example.com")

	// authenticated me
	rec := s.request(t, http.MethodGet, "/api/auth/me", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("me returned %d", rec.Code)
	}
	user := decodeData(t, rec)["user"].(map[string]interface{})
	if user["id"].(string) != userID {
		t.Fatalf("me resolved a different user")
	}

	// unauthenticated me returns a null user, not an error
	rec = s.request(t, http.MethodGet, "/api/auth/me", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous me returned %d", rec.Code)
	}
	if decodeData(t, rec)["user"] != nil {
		t.Fatalf("expected null user for anonymous me")
	}

	// login with the same account yields the same user
	rec = s.request(t, http.MethodPost, "/api/auth/login", `{"email": "flow@example.com", "password": "secret123"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", rec.Code, rec.Body.String())
	}
	if decodeData(t, rec)["id"].(string) != userID {
		t.Fatalf("login resolved a different user")
	}

	// bad credentials
	rec = s.request(t, http.MethodPost, "/api/auth/login", `{"email": "flow@example.com", "password": "nope"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login returned %d", rec.Code)
	}

	// duplicate signup
	rec = s.request(t, http.MethodPost, "/api/auth/signup", `{"email": "flow@example.com", "password": "secret123", "full_name": "Dup"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup returned %d", rec.Code)
	}

	// logout invalidates the session
	rec = s.request(t, http.MethodPost, "/api/auth/logout", "", cookie)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout returned %d", rec.Code)
	}
	rec = s.request(t, http.MethodGet, "/api/interviews", "", cookie)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestSignupWithoutFullName(t *testing.T) {
	s := newTestServer(t, "[]")

	rec := s.request(t, http.MethodPost, "/api/auth/signup", `{"email": "noname@example.com", "password": "secret123"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup without full_name returned %d: %s", rec.Code, rec.Body.String())
	}
	if decodeData(t, rec)["email"].(string) != "noname@example.com" {
		t.Fatalf("unexpected signup payload: %s", rec.Body.String())
	}
}

func TestInterviewAndQuestionFlow(t *testing.T) {
	modelOutput := `[{"question": "Q1", "category": "technical"}, {"question": "Q2"}, {"question": "Q3"}]`
	s := newTestServer(t, modelOutput)
	cookie, _ := s.signup(t, "ivy@example.com")

	rec := s.request(t, http.MethodPost, "/api/interviews", `{"job_role": "SRE", "industry": "tech"}`, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create interview returned %d: %s", rec.Code, rec.Body.String())
	}
	interviewID := decodeData(t, rec)["id"].(string)

	body := fmt.Sprintf(`{"job_role": "SRE", "count": 3, "interview_id": %q}`, interviewID)
	rec = s.request(t, http.MethodPost, "/api/ai/questions", body, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate questions returned %d: %s", rec.Code, rec.Body.String())
	}
	generated := decodeData(t, rec)["questions"].([]interface{})
	if len(generated) != 3 {
		t.Fatalf("expected 3 generated questions, got %d", len(generated))
	}

	// generation persisted the questions under the interview
	rec = s.request(t, http.MethodGet, "/api/interviews/"+interviewID+"/questions", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("list questions returned %d", rec.Code)
	}
	var listEnvelope struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listEnvelope); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(listEnvelope.Data) != 3 {
		t.Fatalf("expected 3 persisted questions, got %d", len(listEnvelope.Data))
	}

	// scoring a question through the update endpoint feeds analytics
	questionID := listEnvelope.Data[0]["id"].(string)
	rec = s.request(t, http.MethodPut, "/api/questions/"+questionID, `{"score": 8, "user_response": "answer"}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("update question returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = s.request(t, http.MethodGet, "/api/analytics", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("analytics returned %d", rec.Code)
	}
	analytics := decodeData(t, rec)
	if analytics["best_score"].(float64) != 8 {
		t.Fatalf("expected best score 8, got %v", analytics["best_score"])
	}
	if analytics["total_interviews"].(float64) != 1 {
		t.Fatalf("expected 1 interview, got %v", analytics["total_interviews"])
	}
}

func TestOwnershipIsolation(t *testing.T) {
	s := newTestServer(t, "[]")
	aliceCookie, _ := s.signup(t, "alice@example.com")
	bobCookie, _ := s.signup(t, "bob@example.com")

	rec := s.request(t, http.MethodPost, "/api/interviews", `{}`, aliceCookie)
	interviewID := decodeData(t, rec)["id"].(string)

	rec = s.request(t, http.MethodPost, "/api/interviews/"+interviewID+"/questions", `{"question_text": "Q"}`, aliceCookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create question returned %d", rec.Code)
	}
	questionID := decodeData(t, rec)["id"].(string)

	// another user's interview is invisible, not forbidden
	rec = s.request(t, http.MethodPut, "/api/interviews/"+interviewID, `{"title": "hijack"}`, bobCookie)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign interview, got %d", rec.Code)
	}
	rec = s.request(t, http.MethodGet, "/api/interviews/"+interviewID+"/questions", "", bobCookie)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign question list, got %d", rec.Code)
	}

	// questions expose their existence but reject foreign writes
	rec = s.request(t, http.MethodPut, "/api/questions/"+questionID, `{"score": 10}`, bobCookie)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign question update, got %d", rec.Code)
	}
}

func TestProfileAndPrivacy(t *testing.T) {
	s := newTestServer(t, "[]")
	cookie, userID := s.signup(t, "pat@example.com")

	rec := s.request(t, http.MethodPut, "/api/profile/"+userID, `{"company": "Acme", "skill_level": "advanced"}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("update profile returned %d: %s", rec.Code, rec.Body.String())
	}
	profile := decodeData(t, rec)
	if profile["company"].(string) != "Acme" || profile["skill_level"].(string) != "advanced" {
		t.Fatalf("unexpected profile: %v", profile)
	}

	rec = s.request(t, http.MethodPut, "/api/profile/"+userID, `{"skill_level": "expert"}`, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad skill level, got %d", rec.Code)
	}

	// privacy defaults before anything is saved
	rec = s.request(t, http.MethodGet, "/api/privacy", "", cookie)
	privacy := decodeData(t, rec)
	if privacy["share_data"].(bool) != true || privacy["data_retention_months"].(float64) != 12 {
		t.Fatalf("unexpected defaults: %v", privacy)
	}

	rec = s.request(t, http.MethodPut, "/api/privacy", `{"share_data": false, "data_retention_months": 6}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("update privacy returned %d", rec.Code)
	}
	rec = s.request(t, http.MethodGet, "/api/privacy", "", cookie)
	privacy = decodeData(t, rec)
	if privacy["share_data"].(bool) != false || privacy["data_retention_months"].(float64) != 6 {
		t.Fatalf("privacy settings did not persist: %v", privacy)
	}

	// other users' profiles are read-only
	otherCookie, otherID := s.signup(t, "other@example.com")
	rec = s.request(t, http.MethodPut, "/api/profile/"+userID, `{"company": "Evil"}`, otherCookie)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 updating foreign profile, got %d", rec.Code)
	}
	rec = s.request(t, http.MethodGet, "/api/profile/"+otherID, "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected profiles to be readable, got %d", rec.Code)
	}
}

func (s *testServer) uploadAvatar(t *testing.T, userID, cookie, filename, contentType string, size int) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="avatar"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := form.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create form part: %v", err)
	}
	if _, err := part.Write(bytes.Repeat([]byte("a"), size)); err != nil {
		t.Fatalf("failed to write form part: %v", err)
	}
	if err := form.Close(); err != nil {
		t.Fatalf("failed to close form: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/profile/"+userID+"/photo", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: s.cfg.CookieName, Value: cookie})
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestAvatarUpload(t *testing.T) {
	s := newTestServer(t, "[]")
	cookie, userID := s.signup(t, "photo@example.com")

	rec := s.uploadAvatar(t, userID, cookie, "me.png", "image/png", 128)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload returned %d: %s", rec.Code, rec.Body.String())
	}
	avatarURL := decodeData(t, rec)["avatar_url"].(string)
	if avatarURL != "/uploads/avatars/"+userID+".png" {
		t.Fatalf("unexpected avatar url %q", avatarURL)
	}

	// the profile record carries the new url
	rec = s.request(t, http.MethodGet, "/api/profile/"+userID, "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile returned %d", rec.Code)
	}
	if decodeData(t, rec)["avatar_url"].(string) != avatarURL {
		t.Fatalf("profile did not record the avatar url: %s", rec.Body.String())
	}
}

func TestAvatarUploadRejectsOversizeFile(t *testing.T) {
	s := newTestServer(t, "[]")
	cookie, userID := s.signup(t, "bigphoto@example.com")

	rec := s.uploadAvatar(t, userID, cookie, "huge.png", "image/png", 2<<20+1)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("oversize upload returned %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("FILE_TOO_LARGE")) {
		t.Fatalf("unexpected error body: %s", rec.Body.String())
	}
}

func TestAvatarUploadRejectsNonImage(t *testing.T) {
	s := newTestServer(t, "[]")
	cookie, userID := s.signup(t, "textphoto@example.com")

	rec := s.uploadAvatar(t, userID, cookie, "notes.txt", "text/plain", 128)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("non-image upload returned %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("INVALID_FILE_TYPE")) {
		t.Fatalf("unexpected error body: %s", rec.Body.String())
	}
}

func TestAccountExportEndpoint(t *testing.T) {
	s := newTestServer(t, "[]")
	cookie, userID := s.signup(t, "export@example.com")

	rec := s.request(t, http.MethodGet, "/api/account/export", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("export returned %d", rec.Code)
	}
	if rec.Header().Get("Content-Disposition") == "" {
		t.Fatalf("expected attachment disposition")
	}

	var export struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &export); err != nil {
		t.Fatalf("failed to decode export: %v", err)
	}
	if export.User.ID != userID {
		t.Fatalf("export for wrong user")
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("password_hash")) {
		t.Fatalf("export leaked the password hash")
	}
}

func TestWebhookSignature(t *testing.T) {
	s := newTestServer(t, "[]")

	req := httptest.NewRequest(http.MethodPost, "/api/vapi/webhook", bytes.NewBufferString(`{"type": "call-ended"}`))
	req.Header.Set("X-Vapi-Signature", "wrong")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad signature, got %d", rec.Code)
	}

	// missing header is also a mismatch
	req = httptest.NewRequest(http.MethodPost, "/api/vapi/webhook", bytes.NewBufferString(`{"type": "call-ended"}`))
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing signature, got %d", rec.Code)
	}
}

func webhookRequest(s *testServer, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/vapi/webhook", bytes.NewBufferString(body))
	req.Header.Set("X-Vapi-Signature", s.cfg.VapiWebhookSecret)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestWebhookAlwaysAcknowledges(t *testing.T) {
	s := newTestServer(t, "[]")

	bodies := []string{
		`{"type": "something-new"}`,
		`{"type": "call-ended", "metadata": {"interviewId": "not-a-uuid"}}`,
		`{"type": "question-scored", "data": {"questionId": "` + "00000000-0000-0000-0000-000000000000" + `"}}`,
		`this is not json`,
	}
	for _, body := range bodies {
		rec := webhookRequest(s, body)
		if rec.Code != http.StatusOK {
			t.Fatalf("body %q: expected 200, got %d", body, rec.Code)
		}
	}
}

func TestWebhookCallLifecycle(t *testing.T) {
	s := newTestServer(t, "[]")
	_, userID := s.signup(t, "voice@example.com")

	// call-started creates the interview and reports its ID
	started := fmt.Sprintf(`{"type": "call-started", "metadata": {"userId": %q, "jobTitle": "Data Engineer", "company": "Initech"}}`, userID)
	rec := webhookRequest(s, started)
	if rec.Code != http.StatusOK {
		t.Fatalf("call-started returned %d: %s", rec.Code, rec.Body.String())
	}
	var ack struct {
		InterviewID string `json:"interviewId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &ack); err != nil || ack.InterviewID == "" {
		t.Fatalf("expected interviewId in ack, got %s", rec.Body.String())
	}

	// question-asked attaches a question
	asked := fmt.Sprintf(`{"type": "question-asked", "data": {"question": "Tell me about ETL"}, "metadata": {"interviewId": %q}}`, ack.InterviewID)
	if rec := webhookRequest(s, asked); rec.Code != http.StatusOK {
		t.Fatalf("question-asked returned %d", rec.Code)
	}

	// transcript fragments accumulate
	transcript := fmt.Sprintf(`{"type": "transcript", "data": {"user_response": "I built pipelines"}, "metadata": {"interviewId": %q}}`, ack.InterviewID)
	if rec := webhookRequest(s, transcript); rec.Code != http.StatusOK {
		t.Fatalf("transcript returned %d", rec.Code)
	}

	// call-ended completes the interview
	ended := fmt.Sprintf(`{"type": "call-ended", "metadata": {"interviewId": %q}}`, ack.InterviewID)
	if rec := webhookRequest(s, ended); rec.Code != http.StatusOK {
		t.Fatalf("call-ended returned %d", rec.Code)
	}

	ctx := context.Background()
	interviews, err := s.interviewRepo.ListByUserID(ctx, mustUUID(t, userID))
	if err != nil || len(interviews) != 1 {
		t.Fatalf("expected 1 interview, got %d (%v)", len(interviews), err)
	}
	interview := interviews[0]
	if interview.Title != "Data Engineer" || interview.Type != "general" {
		t.Fatalf("unexpected interview from call-started: %+v", interview)
	}
	if interview.Status != "completed" || interview.CompletedAt == nil {
		t.Fatalf("expected completed interview, got %q", interview.Status)
	}
	if interview.Transcript == nil || *interview.Transcript != "I built pipelines" {
		t.Fatalf("unexpected transcript: %v", interview.Transcript)
	}

	questions, err := s.questionRepo.ListByInterviewID(ctx, interview.ID)
	if err != nil || len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d (%v)", len(questions), err)
	}
	if questions[0].QuestionText != "Tell me about ETL" {
		t.Fatalf("unexpected question: %+v", questions[0])
	}
}

func TestVapiToken(t *testing.T) {
	s := newTestServer(t, "[]")

	rec := s.request(t, http.MethodPost, "/api/vapi/token", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", rec.Code)
	}

	cookie, _ := s.signup(t, "caller@example.com")
	rec = s.request(t, http.MethodPost, "/api/vapi/token", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("token returned %d", rec.Code)
	}
	if decodeData(t, rec)["token"].(string) != "vapi-public-key" {
		t.Fatalf("unexpected token payload: %s", rec.Body.String())
	}
}

func TestAIFeedbackEndpoint(t *testing.T) {
	s := newTestServer(t, `{"feedback": "Good structure", "score": 7}`)
	cookie, _ := s.signup(t, "fb@example.com")

	rec := s.request(t, http.MethodPost, "/api/ai/feedback", `{"question": "Q", "response": "R"}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("feedback returned %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["score"].(float64) != 7 || data["feedback"].(string) != "Good structure" {
		t.Fatalf("unexpected feedback payload: %v", data)
	}

	rec = s.request(t, http.MethodPost, "/api/ai/feedback", `{"question": "Q"}`, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing response, got %d", rec.Code)
	}
}
