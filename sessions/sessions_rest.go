package sessions

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"oficina/account"
	"oficina/bizerror"
	"oficina/common"
	"oficina/persistence"
	"oficina/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const PathSessions = "/v1/sessions"

// per login name: a burst of five attempts, one refill each ten seconds
var (
	loginLimiters   = map[string]*rate.Limiter{}
	loginLimitersMu sync.Mutex
)

func loginLimiter(name string) *rate.Limiter {
	loginLimitersMu.Lock()
	defer loginLimitersMu.Unlock()
	limiter, found := loginLimiters[name]
	if !found {
		limiter = rate.NewLimiter(rate.Every(10*time.Second), 5)
		loginLimiters[name] = limiter
	}
	return limiter
}

func RegisterSessionsRestAPI(r *gin.Engine) {
	g := r.Group(PathSessions)
	g.POST("", handleLogin)
	g.DELETE("", handleLogout)
	g.GET("", session.SimpleAuthFilter(), handleDetail)
}

func handleLogin(c *gin.Context) {
	login := session.LoginRequest{}
	if err := c.ShouldBindBodyWith(&login, binding.JSON); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}
	if !loginLimiter(login.Name).Allow() {
		panic(bizerror.ErrTooManyLoginAttempts)
	}

	db := persistence.ActiveDataSourceManager.GormDB(c.Request.Context())
	user := account.User{}
	err := db.Where(&account.User{Name: login.Name, Secret: account.HashSha256(login.Password)}).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			panic(bizerror.ErrUnauthenticated)
		}
		panic(err)
	}

	token := uuid.New().String()
	s := session.Session{
		Token: token,
		Identity: session.Identity{
			ID: user.ID, Name: user.Name, Nickname: user.DisplayName(),
		},
		TenantID:    user.TenantID,
		Perms:       account.LoadPermsFunc(&user),
		SigningTime: time.Now(),
	}
	session.TokenCache.Set(token, &s, cache.DefaultExpiration)

	c.SetCookie(session.KeySecToken, token, int(session.TokenExpiration/time.Second), "/", "", false, false)
	c.JSON(http.StatusOK, &s)
}

func handleLogout(c *gin.Context) {
	token, _ := c.Cookie(session.KeySecToken)
	if token != "" {
		session.TokenCache.Delete(token)
	}
	c.SetCookie(session.KeySecToken, "", -1, "/", "", false, false)
	c.AbortWithStatus(http.StatusNoContent)
}

func handleDetail(c *gin.Context) {
	c.JSON(http.StatusOK, session.ExtractSessionFromGinContext(c))
}
