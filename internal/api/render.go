package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/article-review-portal/internal/apiclient"
	"github.com/article-review-portal/internal/models"
	"github.com/article-review-portal/internal/notice"
	"github.com/article-review-portal/internal/session"
	"github.com/gin-gonic/gin"
)

// page renders a template with the fields every page shares: the title, the
// pending flash notice and the session user. The flash is always consumed; a
// notice passed in data takes its place.
func page(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	flash, _ := notice.PopFlash(c.Writer, c.Request)
	if _, ok := data["Notice"]; !ok {
		data["Notice"] = flash
	}
	if _, ok := data["User"]; !ok {
		if u, ok := session.CurrentUser(c); ok {
			data["User"] = &u
		} else {
			data["User"] = (*models.User)(nil)
		}
	}
	c.HTML(status, name, data)
}

// redirect sends the user to path after an action, carrying n to the next
// page.
func redirect(c *gin.Context, path string, n notice.Notice) {
	notice.SetFlash(c.Writer, n)
	c.Redirect(http.StatusSeeOther, path)
}

// errorPage renders the shared error page for a failed load.
func errorPage(c *gin.Context, err error, fallback string) {
	status := http.StatusBadGateway
	switch {
	case apiclient.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, apiclient.ErrTransport):
		status = http.StatusServiceUnavailable
	}
	page(c, status, "error.html", "Hata", gin.H{
		"Status":  status,
		"Message": notice.FromError(err, fallback).Message,
	})
}

// successNotice prefers the backend's acknowledgement.
func successNotice(msg, fallback string) notice.Notice {
	if msg == "" {
		msg = fallback
	}
	return notice.Success(msg)
}

// sendDownload streams a backend document to the browser.
func sendDownload(c *gin.Context, d *models.Download, fallbackName string) error {
	defer d.Body.Close()

	name := d.FileName
	if name == "" {
		name = fallbackName
	}
	c.Header("Content-Type", d.ContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if d.ContentLength >= 0 {
		c.Header("Content-Length", strconv.FormatInt(d.ContentLength, 10))
	}
	c.Status(http.StatusOK)
	_, err := io.Copy(c.Writer, d.Body)
	return err
}
