package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	mysql "github.com/go-sql-driver/mysql"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"guesthouse-backend/apperror"
	"guesthouse-backend/models"
	"guesthouse-backend/utils"
)

// DefaultLanguage is used when a request names no language.
var DefaultLanguage = models.DefaultLanguage

// ---------------------------
// Helper: map service errors to the error envelope
// ---------------------------
func respondError(c *gin.Context, err error) {
	if appErr, ok := apperror.As(err); ok {
		var details interface{}
		if len(appErr.Details) > 0 {
			details = appErr.Details
		}
		utils.JSONError(c, appErr.HTTPStatus(), appErr.Code, appErr.Message, details)
		return
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || isForeignKeyError(err) {
		utils.JSONError(c, http.StatusConflict, "foreign_key", "referenced record does not exist or is still in use", nil)
		return
	}
	if isLockError(err) {
		utils.JSONError(c, http.StatusConflict, "concurrent_update", "the record is being changed by another request", nil)
		return
	}
	log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
	utils.JSONError(c, http.StatusInternalServerError, "internal_error", "internal server error", nil)
}

func isForeignKeyError(err error) bool {
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1451 || merr.Number == 1452
	}
	return false
}

// isLockError detects MySQL deadlocks and lock wait timeouts.
func isLockError(err error) bool {
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1205 || merr.Number == 1213
	}
	return false
}

func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		log.Printf("❌ JSON BINDING ERROR (400): %v", err)
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload", "Invalid request payload", err.Error())
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid_id", name+" must be a positive integer", gin.H{name: raw})
		return 0, false
	}
	return uint(id), true
}

func queryUint(c *gin.Context, key string) (uint, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_query", key+" must be a positive integer", gin.H{key: raw})
		return 0, false
	}
	return uint(v), true
}

func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_query", key+" must be an integer", gin.H{key: raw})
		return 0, false
	}
	return v, true
}

func queryDate(c *gin.Context, key string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	t, err := utils.ParseDate(raw)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_query", err.Error(), gin.H{key: raw})
		return nil, false
	}
	return &t, true
}

// supportedLangs lists the default language first so the matcher falls back to it.
var supportedLangs = func() []string {
	out := []string{DefaultLanguage}
	for _, l := range models.Languages {
		if l != DefaultLanguage {
			out = append(out, l)
		}
	}
	return out
}()

var langMatcher = func() language.Matcher {
	tags := make([]language.Tag, 0, len(supportedLangs))
	for _, l := range supportedLangs {
		tags = append(tags, language.Make(l))
	}
	return language.NewMatcher(tags)
}()

// requestLang picks ?lang=, then the best Accept-Language match, then the default.
func requestLang(c *gin.Context) string {
	if l := strings.ToLower(strings.TrimSpace(c.Query("lang"))); l != "" {
		return l
	}
	return acceptLanguage(c.GetHeader("Accept-Language"))
}

func acceptLanguage(header string) string {
	if strings.TrimSpace(header) == "" {
		return DefaultLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	_, idx, conf := langMatcher.Match(tags...)
	if conf == language.No {
		return DefaultLanguage
	}
	return supportedLangs[idx]
}

func pickLang(body string, c *gin.Context) string {
	if strings.TrimSpace(body) != "" {
		return strings.ToLower(strings.TrimSpace(body))
	}
	return requestLang(c)
}
