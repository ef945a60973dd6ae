package primo

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("valid config", func(t *testing.T) {
		client, err := NewClient("http://localhost:8080/", logger)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080", client.baseURL)
		assert.True(t, client.ownsClient)
		assert.NotNil(t, client.httpClient.Jar)
	})

	t.Run("missing URL", func(t *testing.T) {
		_, err := NewClient("", logger)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("http://localhost:8080", logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("http://localhost:8080", logger, WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Equal(t, custom, client.httpClient)
		assert.False(t, client.ownsClient)
	})
}

func TestLogin(t *testing.T) {
	logger := zerolog.Nop()
	token := makeToken(`{"displayName":"Test User","userName":"testuser"}`)

	t.Run("success", func(t *testing.T) {
		var bootstrapped bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/discovery/search":
				bootstrapped = true
				assert.Equal(t, "48OMNIS_BRP:BRACZ", r.URL.Query().Get("vid"))
				w.WriteHeader(http.StatusOK)
			case "/primaws/suprimaLogin":
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "Alma", r.PostForm.Get("authenticationProfile"))
				assert.Equal(t, "user", r.PostForm.Get("username"))
				assert.Equal(t, "pass", r.PostForm.Get("password"))
				assert.Equal(t, "48OMNIS_BRP", r.PostForm.Get("institution"))
				assert.Equal(t, "48OMNIS_BRP:BRACZ", r.PostForm.Get("view"))
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"jwtData": "\"` + token + `\""}`))
			default:
				t.Errorf("unexpected request to %s", r.URL.Path)
			}
		}))
		defer server.Close()

		client, err := NewClient(server.URL, logger)
		require.NoError(t, err)

		got, err := client.Login(t.Context(), "user", "pass", "48OMNIS_BRP", "48OMNIS_BRP:BRACZ")
		require.NoError(t, err)
		assert.True(t, bootstrapped)
		assert.Equal(t, token, got)
		assert.Equal(t, token, client.token)
		assert.Equal(t, "48OMNIS_BRP:BRACZ", client.view)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/primaws/suprimaLogin" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client, err := NewClient(server.URL, logger)
		require.NoError(t, err)

		_, err = client.Login(t.Context(), "user", "wrong", "inst", "view")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Empty(t, client.token)
	})

	t.Run("missing token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/primaws/suprimaLogin" {
				w.Write([]byte(`{"jwtData": ""}`))
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client, err := NewClient(server.URL, logger)
		require.NoError(t, err)

		_, err = client.Login(t.Context(), "user", "pass", "inst", "view")
		assert.ErrorIs(t, err, ErrMissingToken)
		assert.Empty(t, client.token)
	})
}

func TestFetchUserSummary(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("not logged in", func(t *testing.T) {
		client, err := NewClient("http://localhost:8080", logger)
		require.NoError(t, err)

		_, err = client.FetchUserSummary(t.Context())
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/primaws/rest/priv/myaccount/counters", r.URL.Path)
			assert.NotEmpty(t, r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data":{"listofactions":{"action":[
				{"type":"Loans","value":3},
				{"type":"Requests","value":1},
				{"type":"Fines","value":"12.50"}
			]}}}`))
		}))
		defer server.Close()

		client, err := NewClient(server.URL, logger)
		require.NoError(t, err)
		client.token = makeToken(`{"displayName":"Test User","userName":"testuser"}`)

		summary, err := client.FetchUserSummary(t.Context())
		require.NoError(t, err)
		assert.Equal(t, "Test User", summary.DisplayName)
		assert.Equal(t, "testuser", summary.UserName)
		assert.Equal(t, 3, summary.LoanCount)
		assert.Equal(t, 1, summary.RequestCount)
		assert.Equal(t, 12.50, summary.FinesAmount)
		assert.Equal(t, "PLN", summary.FinesCurrency)
	})

	t.Run("absent counters default to zero", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{"listofactions":{"action":[]}}}`))
		}))
		defer server.Close()

		client, err := NewClient(server.URL, logger)
		require.NoError(t, err)
		client.token = makeToken(`{"displayName":"Test User","userName":"testuser"}`)

		summary, err := client.FetchUserSummary(t.Context())
		require.NoError(t, err)
		assert.Zero(t, summary.LoanCount)
		assert.Zero(t, summary.RequestCount)
		assert.Zero(t, summary.FinesAmount)
		assert.Equal(t, "PLN", summary.FinesCurrency)
	})

	t.Run("non-numeric counter", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{"listofactions":{"action":[{"type":"Loans","value":"many"}]}}}`))
		}))
		defer server.Close()

		client, err := NewClient(server.URL, logger)
		require.NoError(t, err)
		client.token = makeToken(`{"displayName":"Test User","userName":"testuser"}`)

		_, err = client.FetchUserSummary(t.Context())
		var malformed *MalformedResponseError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "Loans", malformed.Field)
	})
}

func TestFetchLoans(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("not logged in", func(t *testing.T) {
		client, err := NewClient("http://localhost:8080", logger)
		require.NoError(t, err)

		_, err = client.FetchLoans(t.Context())
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/primaws/rest/priv/myaccount/loans", r.URL.Path)
			assert.Equal(t, "50", r.URL.Query().Get("bulk"))
			assert.Equal(t, "active", r.URL.Query().Get("type"))
			w.Write([]byte(`{"data":{"loans":{"loan":[{
				"loanid":"123",
				"mmsid":"mms1",
				"title":"Test Book",
				"author":"Test Author",
				"duedate":"20240101",
				"duehour":"2359",
				"loandate":"20231201",
				"loanstatus":"Active",
				"ilsinstitutionname":"Library",
				"mainlocationname":"Branch",
				"itembarcode":"123456",
				"renew":"Y"
			}]}}}`))
		}))
		defer server.Close()

		client, err := NewClient(server.URL, logger)
		require.NoError(t, err)
		client.token = "fake.token.fake"

		loans, err := client.FetchLoans(t.Context())
		require.NoError(t, err)
		require.Len(t, loans, 1)
		assert.Equal(t, "Test Book", loans[0].Title)
		assert.Equal(t, "20240101", loans[0].DueDate)
		assert.True(t, loans[0].Renewable)
	})

	t.Run("empty list is valid", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{"loans":{"loan":[]}}}`))
		}))
		defer server.Close()

		client, err := NewClient(server.URL, logger)
		require.NoError(t, err)
		client.token = "fake.token.fake"

		loans, err := client.FetchLoans(t.Context())
		require.NoError(t, err)
		assert.Empty(t, loans)
	})
}

func TestFetchRecordDetail(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("view not set", func(t *testing.T) {
		client, err := NewClient("http://localhost:8080", logger)
		require.NoError(t, err)

		_, err = client.FetchRecordDetail(t.Context(), "mms1")
		assert.ErrorIs(t, err, ErrViewNotSet)
	})

	t.Run("success with cover", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/primaws/rest/pub/pnxs/L/almamms1":
				assert.Equal(t, "view1", r.URL.Query().Get("vid"))
				w.Write([]byte(`{"pnx":{
					"display":{
						"publisher":["Test Publisher"],
						"creationdate":["2021"],
						"addtitle":["Tytuł oryginału: The Original"]
					},
					"addata":{"isbn":["1111","2222"]}
				}}`))
			case "/b/isbn/1111-M.jpg":
				// Unknown ISBN: the cover service redirects to a placeholder.
				http.Redirect(w, r, "/static/placeholder.jpg", http.StatusFound)
			case "/static/placeholder.jpg":
				w.WriteHeader(http.StatusOK)
			case "/b/isbn/2222-M.jpg":
				w.WriteHeader(http.StatusOK)
			default:
				t.Errorf("unexpected request to %s", r.URL.Path)
			}
		}))
		defer server.Close()

		client, err := NewClient(server.URL, logger)
		require.NoError(t, err)
		client.view = "view1"
		client.coverBaseURL = server.URL

		detail, err := client.FetchRecordDetail(t.Context(), "mms1")
		require.NoError(t, err)
		assert.Equal(t, "Test Publisher", detail.Publisher)
		assert.Equal(t, "The Original", detail.OriginalTitle)
		assert.Contains(t, detail.CoverURL, "2222")
	})

	t.Run("not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client, err := NewClient(server.URL, logger)
		require.NoError(t, err)
		client.view = "view1"

		_, err = client.FetchRecordDetail(t.Context(), "missing")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.True(t, apiErr.IsNotFound())
	})
}

func TestFetchCoverURL(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("exhausting all ISBNs yields none", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client, err := NewClient(server.URL, logger)
		require.NoError(t, err)
		client.coverBaseURL = server.URL

		assert.Empty(t, client.FetchCoverURL(t.Context(), []string{"1111", "2222"}))
	})

	t.Run("network error on one ISBN tries the next", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/b/isbn/2222-M.jpg" {
				w.WriteHeader(http.StatusOK)
				return
			}
			// Kill the connection for the first ISBN.
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
		}))
		defer server.Close()

		client, err := NewClient(server.URL, logger)
		require.NoError(t, err)
		client.coverBaseURL = server.URL

		url := client.FetchCoverURL(t.Context(), []string{"1111", "2222"})
		assert.Contains(t, url, "2222")
	})

	t.Run("no ISBNs", func(t *testing.T) {
		client, err := NewClient("http://localhost:8080", logger)
		require.NoError(t, err)
		assert.Empty(t, client.FetchCoverURL(t.Context(), nil))
	})
}

func TestRenewLoan(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("not logged in", func(t *testing.T) {
		client, err := NewClient("http://localhost:8080", logger)
		require.NoError(t, err)
		assert.ErrorIs(t, client.RenewLoan(t.Context(), "123"), ErrNotAuthenticated)
	})

	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/primaws/rest/priv/myaccount/renew_loans", r.URL.Path)
			assert.Equal(t, "Bearer fake.token.fake", r.Header.Get("Authorization"))
			w.Write([]byte(`{"data":{}}`))
		}))
		defer server.Close()

		client, err := NewClient(server.URL, logger)
		require.NoError(t, err)
		client.token = "fake.token.fake"

		assert.NoError(t, client.RenewLoan(t.Context(), "123"))
	})
}
