package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// flashCookie carries a one-shot status message across a redirect. It is
// set alongside the redirect and consumed (cleared) at the next render.
const flashCookie = "watchlist_flash"

func setFlash(c *gin.Context, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, message, 60, "/", "", false, true)
}

func takeFlash(c *gin.Context) string {
	message, err := c.Cookie(flashCookie)
	if err != nil || message == "" {
		return ""
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	return message
}

// flashRedirect sets message and redirects to target in one step.
func flashRedirect(c *gin.Context, target, message string) {
	setFlash(c, message)
	c.Redirect(http.StatusFound, target)
}
