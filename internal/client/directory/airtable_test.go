package directory

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/memberportal/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAirtable(t *testing.T, h http.HandlerFunc) *Airtable {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	a, err := NewAirtable(AirtableOptions{BaseURL: srv.URL, BaseID: "appBASE", Table: "Utilisateurs", Token: "pat", Timeout: 2 * time.Second})
	require.NoError(t, err)
	return a
}

func TestNewAirtable_RequiresSettings(t *testing.T) {
	_, err := NewAirtable(AirtableOptions{Table: "t", Token: "x"})
	assert.Error(t, err)
	_, err = NewAirtable(AirtableOptions{BaseID: "b", Table: "t"})
	assert.Error(t, err)
}

func TestFormulaString_Escapes(t *testing.T) {
	assert.Equal(t, `'a@x.com'`, formulaString("a@x.com"))
	assert.Equal(t, `'o\'brien@x.com'`, formulaString("o'brien@x.com"))
	assert.Equal(t, `'a\\b'`, formulaString(`a\b`))
}

func TestAirtable_FindByEmail(t *testing.T) {
	a := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/appBASE/Utilisateurs", r.URL.Path)
		assert.Equal(t, "Bearer pat", r.Header.Get("Authorization"))
		assert.Equal(t, `EXACT({Email}, 'a@x.com')`, r.URL.Query().Get("filterByFormula"))
		assert.Equal(t, "1", r.URL.Query().Get("maxRecords"))

		_, _ = io.WriteString(w, `{"records":[{"id":"rec1","createdTime":"2024-01-01T00:00:00.000Z","fields":{
			"Email":"a@x.com","MotDePasse":"$2b$hash","Prenom":"Jean","Nom":"Dupont","Telephone":600000000}}]}`)
	})

	r, err := a.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, UserRecord{ID: "rec1", Email: "a@x.com", CredentialHash: "$2b$hash", GivenName: "Jean", FamilyName: "Dupont", Phone: "600000000"}, *r)
}

func TestAirtable_FindByEmail_Absent(t *testing.T) {
	a := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"records":[]}`)
	})

	r, err := a.FindByEmail(context.Background(), "ghost@x.com")
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestAirtable_FindByEmail_SkipsCaseVariants(t *testing.T) {
	a := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"records":[
			{"id":"recUpper","fields":{"Email":"A@X.com"}},
			{"id":"recExact","fields":{"Email":"a@x.com","Prenom":"Jean"}}]}`)
	})

	r, err := a.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "recExact", r.ID)
	assert.Equal(t, "Jean", r.GivenName)
}

func TestAirtable_FindByEmail_CaseMismatchIsAbsent(t *testing.T) {
	a := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"records":[{"id":"rec1","fields":{"Email":"A@X.com"}}]}`)
	})

	r, err := a.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestAirtable_Errors(t *testing.T) {
	tests := []struct {
		name string
		h    http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { http.Error(w, "boom", http.StatusInternalServerError) }},
		{"rate limited", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTooManyRequests) }},
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusUnauthorized) }},
		{"bad body", func(w http.ResponseWriter, r *http.Request) { _, _ = io.WriteString(w, "not json") }},
		{"timeout", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(3 * time.Second):
			case <-r.Context().Done():
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAirtable(t, tt.h)
			a.client.Timeout = 200 * time.Millisecond

			_, err := a.FindByEmail(context.Background(), "a@x.com")
			require.ErrorIs(t, err, common.ErrDirectoryUnavailable)
		})
	}
}

func TestAirtable_Create(t *testing.T) {
	a := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{
			"Email": "a@x.com", "MotDePasse": "$2a$hash", "Prenom": "Jean", "Nom": "Dupont", "Telephone": "",
		}, body.Fields)

		// Airtable leaves empty cells out of the response.
		_, _ = io.WriteString(w, `{"id":"recNEW","fields":{"Email":"a@x.com","MotDePasse":"$2a$hash","Prenom":"Jean","Nom":"Dupont"}}`)
	})

	r, err := a.Create(context.Background(), NewUser{Email: "a@x.com", CredentialHash: "$2a$hash", GivenName: "Jean", FamilyName: "Dupont"})
	require.NoError(t, err)
	assert.Equal(t, "recNEW", r.ID)
	assert.Equal(t, "a@x.com", r.Email)
	assert.Equal(t, "$2a$hash", r.CredentialHash)
	assert.Equal(t, "", r.Phone)
}

func TestAirtable_Patch_SendsOnlyProfileFields(t *testing.T) {
	a := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/appBASE/Utilisateurs/rec1", r.URL.Path)

		var body struct {
			Fields map[string]any `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"Prenom": "Jean", "Nom": "Dupont", "Telephone": "0611111111"}, body.Fields)

		_, _ = io.WriteString(w, `{"id":"rec1","fields":{"Email":"a@x.com","Prenom":"Jean","Telephone":"0611111111"}}`)
	})

	view, err := a.Patch(context.Background(), "rec1", ProfileUpdate{GivenName: "Jean", FamilyName: "Dupont", Phone: "0611111111"})
	require.NoError(t, err)
	assert.Equal(t, Fields{FieldEmail: "a@x.com", FieldGivenName: "Jean", FieldPhone: "0611111111"}, view)
	_, hasFamily := view[FieldFamilyName]
	assert.False(t, hasFamily, "a cell missing from the response stays missing")
}

func TestAirtable_CustomColumns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `EXACT({Mail}, 'a@x.com')`, r.URL.Query().Get("filterByFormula"))
		_, _ = io.WriteString(w, `{"records":[{"id":"rec1","fields":{"Mail":"a@x.com","Hash":"h"}}]}`)
	}))
	t.Cleanup(srv.Close)

	a, err := NewAirtable(AirtableOptions{BaseURL: srv.URL, BaseID: "b", Table: "t", Token: "x", Columns: Columns{Email: "Mail", CredentialHash: "Hash"}})
	require.NoError(t, err)

	r, err := a.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "h", r.CredentialHash)
}
