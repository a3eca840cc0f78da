package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openleadr/openleadr-go/internal/auth"
)

// Token handles POST /auth/token, the client-credentials grant.
//
// Credentials arrive either in the form body or a Basic Authorization
// header. Supplying both is ambiguous and rejected.
func (s *Server) Token(c *gin.Context) {
	if s.issuer == nil {
		writeOAuthError(c, &auth.OAuthError{
			Code:        auth.OAuthInvalidRequest,
			Description: "token endpoint is disabled, tokens are issued externally",
		})
		return
	}

	req, oerr := parseTokenRequest(c)
	if oerr != nil {
		writeOAuthError(c, oerr)
		return
	}

	resp, oerr := s.issuer.Grant(c.Request.Context(), req)
	if oerr != nil {
		writeOAuthError(c, oerr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func parseTokenRequest(c *gin.Context) (auth.TokenRequest, *auth.OAuthError) {
	req := auth.TokenRequest{
		GrantType:    c.PostForm("grant_type"),
		ClientID:     c.PostForm("client_id"),
		ClientSecret: c.PostForm("client_secret"),
		Scope:        c.PostForm("scope"),
	}

	basicID, basicSecret, hasBasic := c.Request.BasicAuth()
	if hasBasic {
		if req.ClientID != "" || req.ClientSecret != "" {
			return auth.TokenRequest{}, &auth.OAuthError{
				Code:        auth.OAuthInvalidRequest,
				Description: "credentials must be sent in the body or the Authorization header, not both",
			}
		}
		req.ClientID = basicID
		req.ClientSecret = basicSecret
	}
	return req, nil
}

func writeOAuthError(c *gin.Context, oerr *auth.OAuthError) {
	if oerr.Code == auth.OAuthInvalidClient {
		c.Header("WWW-Authenticate", `Basic realm="VTN"`)
	}
	c.AbortWithStatusJSON(oerr.HTTPStatus(), oerr)
}
