package routes

import (
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/formhive/formhive/app"
	"github.com/formhive/formhive/httpx"
	"github.com/formhive/formhive/log"
)

func Login(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "login.basic_auth")
			return
		}

		body := url.Values{
			"grant_type": {"password"},
			"username":   {user},
			"password":   {pass},
		}
		r.Body = newFormBody(r.Header, body)
		app.UserCredentials(w, r)
	}
}

var reRefreshToken = regexp.MustCompile(`(?i)^refresh\s+(.*)`)

func Refresh(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("authorization")
		match := reRefreshToken.FindStringSubmatch(auth)
		if len(match) == 0 {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "refresh.token")
			return
		}

		body := url.Values{
			"grant_type":    {"refresh_token"},
			"refresh_token": {match[1]},
		}

		req, err := http.NewRequest("POST", "/", nil)
		if err != nil {
			httpx.LogStatus(w, http.StatusInternalServerError, log.DebugLevel, "refresh.new_request")
			return
		}
		req.Body = newFormBody(req.Header, body)

		resp := httpx.NewResponseBuffer()
		app.UserCredentials(resp, req)
		resp.Flush(w)
	}
}

func newFormBody(header http.Header, body url.Values) *formBody {
	encoded := body.Encode()
	header.Set("content-type", "application/x-www-form-urlencoded")
	header.Set("content-length", strconv.Itoa(len(encoded)))
	return &formBody{strings.NewReader(encoded)}
}

type formBody struct {
	*strings.Reader
}

func (*formBody) Close() error { return nil }
