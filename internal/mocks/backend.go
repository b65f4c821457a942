package mocks

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Raw statuses the fake backend stores. Approval and rejection use the
// legacy synonyms so clients have to normalize.
const (
	rawPending     = "Beklemede"
	rawApproved    = "Kabul Edildi"
	rawRejected    = "Reddedildi"
	rawUnderReview = "Değerlendiriliyor"
	rawReviewed    = "Değerlendirildi"
	rawDone        = "Tamamlandı"
	rawRevised     = "revised"
)

// PDF is the document body served for every download.
var PDF = []byte("%PDF-1.4\n% fake\n")

// RecordedRequest is one request seen by the fake backend.
type RecordedRequest struct {
	Method      string
	Path        string
	ContentType string
	RequestID   string
	Body        []byte
}

// Message is an author message stored by POST /send-message.
type Message struct {
	ArticleID string
	Email     string
	Content   string
}

// SeedArticle describes an article to preload.
type SeedArticle struct {
	Title          string
	Author         string
	Institution    string
	Email          string
	Keywords       string
	Status         string
	SubmissionDate string
}

type fakeArticle struct {
	id           int
	title        string
	author       string
	institution  string
	email        string
	keywords     string
	status       string
	submitted    string
	trackingCode string
	anonymized   []string
	fileName     string
	// reviewer email -> review done
	assigned map[string]bool
	reviews  []fakeReview
}

type fakeReview struct {
	email    string
	name     string
	decision string
	comments string
	date     string
}

type fakeReviewer struct {
	id    int
	name  string
	email string
}

type fakeAudit struct {
	timestamp string
	articleID int
	action    string
	details   string
}

type failure struct {
	status  int
	message string
}

// Backend is an in-memory stand-in for the article review REST backend.
// It serves every endpoint the portal consumes under /api and enforces the
// article status transitions.
type Backend struct {
	mu        sync.Mutex
	nextID    int
	articles  map[int]*fakeArticle
	order     []int
	reviewers map[string]*fakeReviewer
	audit     []fakeAudit
	messages  []Message
	failures  map[string]failure
	requests  []RecordedRequest
	now       func() time.Time

	// LegacyKeys makes article payloads use upload_date and tracking_number.
	LegacyKeys bool
	// InlineDetail embeds reviewers (as a comma separated string) and
	// reviews in GET /articles/{id}. Otherwise clients must use the
	// sub-resources.
	InlineDetail bool

	router *gin.Engine
}

// NewBackend creates an empty fake backend.
func NewBackend() *Backend {
	gin.SetMode(gin.TestMode)
	b := &Backend{
		nextID:    1,
		articles:  make(map[int]*fakeArticle),
		reviewers: make(map[string]*fakeReviewer),
		failures:  make(map[string]failure),
		now:       time.Now,
	}
	b.router = b.routes()
	return b
}

// Start serves the backend on a test server. The API base URL is
// server.URL + "/api".
func (b *Backend) Start() *httptest.Server {
	return httptest.NewServer(b)
}

// ServeHTTP implements http.Handler.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

// Fail makes route ("METHOD /api/path/:param") answer status with message
// until cleared with status 0.
func (b *Backend) Fail(route string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status == 0 {
		delete(b.failures, route)
		return
	}
	b.failures[route] = failure{status: status, message: message}
}

// Requests returns the requests received so far.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

// Messages returns the author messages received so far.
func (b *Backend) Messages() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Message(nil), b.messages...)
}

// FileName returns the stored manuscript name of an article.
func (b *Backend) FileName(articleID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, _ := strconv.Atoi(articleID)
	if a, ok := b.articles[id]; ok {
		return a.fileName
	}
	return ""
}

// LastRequest returns the most recent request to path, if any.
func (b *Backend) LastRequest(method, path string) (RecordedRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requests) - 1; i >= 0; i-- {
		if b.requests[i].Method == method && b.requests[i].Path == path {
			return b.requests[i], true
		}
	}
	return RecordedRequest{}, false
}

// AddArticle preloads an article and returns its id and tracking code.
func (b *Backend) AddArticle(s SeedArticle) (string, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s.Status == "" {
		s.Status = rawPending
	}
	if s.SubmissionDate == "" {
		s.SubmissionDate = b.now().UTC().Format("2006-01-02T15:04:05")
	}
	a := b.insert(s.Title, s.Keywords, s.Institution, s.Email, "seed.pdf")
	a.author = s.Author
	a.status = s.Status
	a.submitted = s.SubmissionDate
	return strconv.Itoa(a.id), a.trackingCode
}

// AddReviewer registers a reviewer who may log in.
func (b *Backend) AddReviewer(name, email string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.addReviewer(name, email)
}

// Assign assigns a reviewer to an article directly.
func (b *Backend) Assign(articleID, email string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, _ := strconv.Atoi(articleID)
	if a, ok := b.articles[id]; ok {
		a.assigned[email] = false
	}
}

// Status returns the raw stored status of an article.
func (b *Backend) Status(articleID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, _ := strconv.Atoi(articleID)
	if a, ok := b.articles[id]; ok {
		return a.status
	}
	return ""
}

func (b *Backend) insert(title, keywords, institution, email, fileName string) *fakeArticle {
	a := &fakeArticle{
		id:           b.nextID,
		title:        title,
		keywords:     keywords,
		institution:  institution,
		email:        email,
		status:       rawPending,
		submitted:    b.now().UTC().Format("2006-01-02T15:04:05"),
		trackingCode: "TRK-" + strings.ToUpper(uuid.NewString()[:8]),
		fileName:     fileName,
		assigned:     make(map[string]bool),
	}
	b.nextID++
	b.articles[a.id] = a
	b.order = append(b.order, a.id)
	return a
}

func (b *Backend) addReviewer(name, email string) *fakeReviewer {
	if r, ok := b.reviewers[email]; ok {
		return r
	}
	r := &fakeReviewer{id: len(b.reviewers) + 1, name: name, email: email}
	b.reviewers[email] = r
	return r
}

func (b *Backend) log(articleID int, action, details string) {
	b.audit = append(b.audit, fakeAudit{
		timestamp: b.now().UTC().Add(time.Duration(len(b.audit)) * time.Millisecond).Format(time.RFC3339Nano),
		articleID: articleID,
		action:    action,
		details:   details,
	})
}

func (b *Backend) routes() *gin.Engine {
	r := gin.New()
	r.Use(b.record(), b.inject())

	api := r.Group("/api")
	api.GET("/articles", b.listArticles)
	api.GET("/articles/:id", b.getArticle)
	api.GET("/articles/:id/reviewers", b.getReviewers)
	api.GET("/articles/:id/reviews", b.getReviews)
	api.GET("/track/:code", b.track)
	api.POST("/submit-article", b.submit)
	api.POST("/revise-article/:code", b.revise)
	api.POST("/send-message", b.sendMessage)

	admin := api.Group("/admin")
	admin.GET("/audit-logs", b.auditLogs)
	admin.POST("/approve/:id", b.transition("approve", rawApproved))
	admin.POST("/reject/:id", b.transition("reject", rawRejected))
	admin.POST("/anonymize/:id", b.anonymize)
	admin.POST("/assign-reviewer", b.assignReviewer)
	admin.POST("/add-test-reviewer", b.addTestReviewers)
	admin.GET("/download/:id", b.adminDownload(false))
	admin.GET("/download-anonymized/:id", b.adminDownload(true))

	rev := api.Group("/reviewer")
	rev.POST("/login", b.reviewerLogin)
	rev.GET("/articles/:email", b.reviewerArticles)
	rev.POST("/submit-review", b.submitReview)
	rev.POST("/download/:id", b.reviewerDownload)

	author := api.Group("/author")
	author.GET("/profile/:email", b.authorProfile)
	author.GET("/reviews/:email", b.authorReviews)

	return r
}

func (b *Backend) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}
		b.mu.Lock()
		b.requests = append(b.requests, RecordedRequest{
			Method:      c.Request.Method,
			Path:        c.Request.URL.Path,
			ContentType: c.GetHeader("Content-Type"),
			RequestID:   c.GetHeader("X-Request-ID"),
			Body:        body,
		})
		b.mu.Unlock()
		c.Next()
	}
}

func (b *Backend) inject() gin.HandlerFunc {
	return func(c *gin.Context) {
		b.mu.Lock()
		f, ok := b.failures[c.Request.Method+" "+c.FullPath()]
		b.mu.Unlock()
		if ok {
			c.AbortWithStatusJSON(f.status, gin.H{"message": f.message})
			return
		}
		c.Next()
	}
}

func (b *Backend) articleJSON(a *fakeArticle, detail bool) gin.H {
	h := gin.H{
		"id":          a.id,
		"title":       a.title,
		"author":      a.author,
		"institution": a.institution,
		"email":       a.email,
		"keywords":    splitKeywords(a.keywords),
		"status":      a.status,
	}
	if b.LegacyKeys {
		h["upload_date"] = a.submitted
		h["tracking_number"] = a.trackingCode
	} else {
		h["submission_date"] = a.submitted
		h["tracking_code"] = a.trackingCode
	}
	if detail && b.InlineDetail {
		names := make([]string, 0, len(a.assigned))
		for _, email := range sortedKeys(a.assigned) {
			names = append(names, b.reviewerName(email))
		}
		h["reviewers"] = strings.Join(names, ", ")
		h["comments"] = b.reviewsJSON(a)
	}
	return h
}

func (b *Backend) reviewerName(email string) string {
	if r, ok := b.reviewers[email]; ok && r.name != "" {
		return r.name
	}
	return email
}

func (b *Backend) reviewsJSON(a *fakeArticle) []gin.H {
	out := make([]gin.H, 0, len(a.reviews))
	for _, rv := range a.reviews {
		out = append(out, gin.H{
			"reviewer":       rv.name,
			"reviewer_email": rv.email,
			"evaluation":     rv.decision,
			"comment":        rv.comments,
			"date":           rv.date,
		})
	}
	return out
}

func (b *Backend) lookup(c *gin.Context) (*fakeArticle, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Makale bulunamadı"})
		return nil, false
	}
	a, ok := b.articles[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Makale bulunamadı"})
		return nil, false
	}
	return a, true
}

func (b *Backend) listArticles(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]gin.H, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.articleJSON(b.articles[id], false))
	}
	c.JSON(http.StatusOK, out)
}

func (b *Backend) getArticle(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, b.articleJSON(a, true))
}

func (b *Backend) getReviewers(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.lookup(c)
	if !ok {
		return
	}
	out := make([]gin.H, 0, len(a.assigned))
	for _, email := range sortedKeys(a.assigned) {
		h := gin.H{"email": email, "name": b.reviewerName(email)}
		if r, ok := b.reviewers[email]; ok {
			h["id"] = r.id
		}
		out = append(out, h)
	}
	c.JSON(http.StatusOK, out)
}

func (b *Backend) getReviews(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, b.reviewsJSON(a))
}

func (b *Backend) track(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	code := c.Param("code")
	for _, id := range b.order {
		if a := b.articles[id]; a.trackingCode == code {
			c.JSON(http.StatusOK, b.articleJSON(a, false))
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "Bu takip numarasına ait makale bulunamadı"})
}

func (b *Backend) submit(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Dosya yüklenmedi"})
		return
	}
	title := c.PostForm("title")
	if strings.TrimSpace(title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Başlık gerekli"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	a := b.insert(title, c.PostForm("keywords"), c.PostForm("institution"), c.PostForm("email"), file.Filename)
	b.log(a.id, "Makale yüklendi", a.title)
	c.JSON(http.StatusCreated, gin.H{
		"message":       "Makale başarıyla yüklendi",
		"tracking_code": a.trackingCode,
		"id":            strconv.Itoa(a.id),
	})
}

func (b *Backend) revise(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Dosya bulunamadı"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	var a *fakeArticle
	for _, id := range b.order {
		if b.articles[id].trackingCode == c.Param("code") {
			a = b.articles[id]
			break
		}
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Makale bulunamadı"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Sadece PDF dosyaları kabul edilmektedir"})
		return
	}
	a.fileName = file.Filename
	a.status = rawRevised
	b.log(a.id, "Makale revize edildi", "Yeni dosya: "+file.Filename)
	c.JSON(http.StatusOK, gin.H{"message": "Revize makale başarıyla yüklendi"})
}

func (b *Backend) sendMessage(c *gin.Context) {
	var req struct {
		ArticleID string `json:"article_id"`
		Message   string `json:"message"`
		Email     string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ArticleID == "" || req.Message == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Eksik bilgi"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, Message{ArticleID: req.ArticleID, Email: req.Email, Content: req.Message})
	c.JSON(http.StatusCreated, gin.H{"message": "Mesaj gönderildi"})
}

func (b *Backend) auditLogs(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]gin.H, 0, len(b.audit))
	for _, l := range b.audit {
		out = append(out, gin.H{
			"timestamp":  l.timestamp,
			"article_id": l.articleID,
			"action":     l.action,
			"details":    l.details,
		})
	}
	c.JSON(http.StatusOK, gin.H{"logs": out})
}

func (b *Backend) transition(action, to string) gin.HandlerFunc {
	return func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		a, ok := b.lookup(c)
		if !ok {
			return
		}
		if a.status != rawPending {
			c.JSON(http.StatusConflict, gin.H{"message": "Bu işlem makalenin mevcut durumunda yapılamaz"})
			return
		}
		a.status = to
		b.log(a.id, action, to)
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Makale durumu güncellendi: %s", to)})
	}
}

func (b *Backend) anonymize(c *gin.Context) {
	var req struct {
		SensitiveInfo []string `json:"sensitive_info"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.SensitiveInfo == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "sensitive_info gerekli"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.lookup(c)
	if !ok {
		return
	}
	if a.status != rawApproved {
		c.JSON(http.StatusConflict, gin.H{"message": "Yalnızca onaylanmış makaleler anonimleştirilebilir"})
		return
	}
	a.anonymized = req.SensitiveInfo
	a.status = rawUnderReview
	b.log(a.id, "anonymize", strings.Join(req.SensitiveInfo, ","))
	c.JSON(http.StatusOK, gin.H{"message": "Makale anonimleştirildi"})
}

func (b *Backend) assignReviewer(c *gin.Context) {
	var req struct {
		ArticleID     string `json:"article_id"`
		ReviewerEmail string `json:"reviewer_email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ArticleID == "" || req.ReviewerEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "article_id ve reviewer_email gerekli"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	id, _ := strconv.Atoi(req.ArticleID)
	a, ok := b.articles[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Makale bulunamadı"})
		return
	}
	if _, ok := b.reviewers[req.ReviewerEmail]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Hakem bulunamadı"})
		return
	}
	if _, dup := a.assigned[req.ReviewerEmail]; dup {
		c.JSON(http.StatusConflict, gin.H{"message": "Hakem zaten atanmış"})
		return
	}
	a.assigned[req.ReviewerEmail] = false
	b.log(a.id, "assign-reviewer", req.ReviewerEmail)
	c.JSON(http.StatusOK, gin.H{"message": "Hakem atandı"})
}

func (b *Backend) addTestReviewers(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := 1; i <= 3; i++ {
		b.addReviewer(fmt.Sprintf("Test Hakem %d", i), fmt.Sprintf("hakem%d@test.com", i))
	}
	c.JSON(http.StatusOK, gin.H{"message": "3 test hakemi eklendi"})
}

func (b *Backend) adminDownload(anonymized bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		a, ok := b.lookup(c)
		if !ok {
			return
		}
		name := a.fileName
		if anonymized {
			if a.anonymized == nil {
				c.JSON(http.StatusNotFound, gin.H{"message": "Anonim dosya bulunamadı"})
				return
			}
			name = "anonim_" + name
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
		c.Data(http.StatusOK, "application/pdf", PDF)
	}
}

func (b *Backend) reviewerLogin(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Geçersiz istek"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.reviewers[req.Email]
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Hakem bulunamadı"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Giriş başarılı",
		"reviewer": gin.H{"id": r.id, "name": r.name, "email": r.email},
	})
}

func (b *Backend) reviewerArticles(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	email := c.Param("email")
	out := make([]gin.H, 0)
	for _, id := range b.order {
		a := b.articles[id]
		done, ok := a.assigned[email]
		if !ok {
			continue
		}
		h := b.articleJSON(a, false)
		h["review_status"] = rawPending
		if done {
			h["review_status"] = rawDone
		}
		out = append(out, h)
	}
	c.JSON(http.StatusOK, out)
}

func (b *Backend) submitReview(c *gin.Context) {
	var req struct {
		ArticleID     string `json:"article_id"`
		ReviewerEmail string `json:"reviewer_email"`
		Decision      string `json:"decision"`
		Status        string `json:"status"`
		Comments      string `json:"comments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Geçersiz istek"})
		return
	}
	decision := req.Decision
	if decision == "" {
		decision = req.Status
	}
	switch decision {
	case "accept", "reject", "revise":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Geçersiz karar"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	id, _ := strconv.Atoi(req.ArticleID)
	a, ok := b.articles[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Makale bulunamadı"})
		return
	}
	done, assigned := a.assigned[req.ReviewerEmail]
	if !assigned {
		c.JSON(http.StatusForbidden, gin.H{"message": "Bu makale size atanmamış"})
		return
	}
	if done {
		c.JSON(http.StatusConflict, gin.H{"message": "Bu makale için değerlendirme zaten yapıldı"})
		return
	}
	a.assigned[req.ReviewerEmail] = true
	a.reviews = append(a.reviews, fakeReview{
		email:    req.ReviewerEmail,
		name:     b.reviewerName(req.ReviewerEmail),
		decision: decision,
		comments: req.Comments,
		date:     b.now().UTC().Format("2006-01-02 15:04:05"),
	})
	if allDone(a.assigned) {
		a.status = rawReviewed
	}
	b.log(a.id, "review", decision)
	c.JSON(http.StatusOK, gin.H{"message": "Değerlendirme kaydedildi"})
}

func (b *Backend) reviewerDownload(c *gin.Context) {
	var req struct {
		ReviewerEmail string `json:"reviewer_email"`
	}
	_ = c.ShouldBindJSON(&req)

	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.lookup(c)
	if !ok {
		return
	}
	if _, assigned := a.assigned[req.ReviewerEmail]; !assigned {
		c.JSON(http.StatusForbidden, gin.H{"message": "Bu makale size atanmamış"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="anonim_%d.pdf"`, a.id))
	c.Data(http.StatusOK, "application/pdf", PDF)
}

func (b *Backend) authorArticles(email string) []*fakeArticle {
	var out []*fakeArticle
	for _, id := range b.order {
		if a := b.articles[id]; a.email == email {
			out = append(out, a)
		}
	}
	return out
}

func (b *Backend) authorProfile(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	email := c.Param("email")
	articles := b.authorArticles(email)
	if len(articles) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Yazar bulunamadı"})
		return
	}
	accepted, pending := 0, 0
	for _, a := range articles {
		switch a.status {
		case rawApproved, rawUnderReview, rawReviewed, rawDone:
			accepted++
		case rawPending:
			pending++
		}
	}
	first, last := splitName(articles[0].author)
	c.JSON(http.StatusOK, gin.H{
		"first_name":        first,
		"last_name":         last,
		"email":             email,
		"total_articles":    len(articles),
		"accepted_articles": accepted,
		"pending_articles":  pending,
	})
}

func (b *Backend) authorReviews(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]gin.H, 0)
	for _, a := range b.authorArticles(c.Param("email")) {
		for _, rv := range a.reviews {
			out = append(out, gin.H{"article_title": a.title, "status": a.status, "date": rv.date})
		}
	}
	c.JSON(http.StatusOK, out)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func allDone(m map[string]bool) bool {
	for _, done := range m {
		if !done {
			return false
		}
	}
	return len(m) > 0
}

func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	i := strings.LastIndex(full, " ")
	if i < 0 {
		return full, ""
	}
	return full[:i], full[i+1:]
}

func splitKeywords(s string) []string {
	out := []string{}
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
