package adapter

import (
	"github.com/go-resty/resty/v2"
)

// SignRequest attaches the OAuth Authorization header for token to r.
func SignRequest(r *resty.Request, scheme, token string) *resty.Request {
	return r.SetHeader("Authorization", scheme+" "+token)
}

// OAuthSigner returns request middleware signing every outgoing request.
func OAuthSigner(scheme, token string) resty.RequestMiddleware {
	return func(_ *resty.Client, r *resty.Request) error {
		SignRequest(r, scheme, token)
		return nil
	}
}
