package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/memberportal/internal/common"
)

const DefaultAirtableBaseURL = "https://api.airtable.com/v0"

// Columns maps logical fields to Airtable column names.
type Columns struct {
	Email          string
	CredentialHash string
	GivenName      string
	FamilyName     string
	Phone          string
}

// DefaultColumns are the column names of the original members table.
func DefaultColumns() Columns {
	return Columns{
		Email:          "Email",
		CredentialHash: "MotDePasse",
		GivenName:      "Prenom",
		FamilyName:     "Nom",
		Phone:          "Telephone",
	}
}

func (c Columns) withDefaults() Columns {
	d := DefaultColumns()
	if c.Email == "" {
		c.Email = d.Email
	}
	if c.CredentialHash == "" {
		c.CredentialHash = d.CredentialHash
	}
	if c.GivenName == "" {
		c.GivenName = d.GivenName
	}
	if c.FamilyName == "" {
		c.FamilyName = d.FamilyName
	}
	if c.Phone == "" {
		c.Phone = d.Phone
	}
	return c
}

// pairs lists (logical, column) in a fixed order.
func (c Columns) pairs() [][2]string {
	return [][2]string{
		{FieldEmail, c.Email},
		{FieldCredentialHash, c.CredentialHash},
		{FieldGivenName, c.GivenName},
		{FieldFamilyName, c.FamilyName},
		{FieldPhone, c.Phone},
	}
}

type AirtableOptions struct {
	BaseURL    string
	BaseID     string
	Table      string
	Token      string
	Timeout    time.Duration
	Columns    Columns
	HTTPClient *http.Client
}

// Airtable is a Directory backed by an Airtable table over its REST API.
type Airtable struct {
	endpoint string
	token    string
	columns  Columns
	client   *http.Client
}

func NewAirtable(o AirtableOptions) (*Airtable, error) {
	if o.BaseID == "" || o.Table == "" {
		return nil, errors.New("airtable: base id and table are required")
	}
	if o.Token == "" {
		return nil, errors.New("airtable: token is required")
	}
	if o.BaseURL == "" {
		o.BaseURL = DefaultAirtableBaseURL
	}
	client := o.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: o.Timeout}
	}

	return &Airtable{
		endpoint: strings.TrimRight(o.BaseURL, "/") + "/" + url.PathEscape(o.BaseID) + "/" + url.PathEscape(o.Table),
		token:    o.Token,
		columns:  o.Columns.withDefaults(),
		client:   client,
	}, nil
}

type airtableRecord struct {
	ID     string         `json:"id,omitempty"`
	Fields map[string]any `json:"fields"`
}

type airtableList struct {
	Records []airtableRecord `json:"records"`
}

// formulaString quotes s as an Airtable formula string literal.
func formulaString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

func (a *Airtable) FindByEmail(ctx context.Context, email string) (*UserRecord, error) {
	q := url.Values{}
	q.Set("filterByFormula", fmt.Sprintf("EXACT({%s}, %s)", a.columns.Email, formulaString(email)))
	q.Set("maxRecords", "1")

	var list airtableList
	if err := a.do(ctx, http.MethodGet, a.endpoint+"?"+q.Encode(), nil, &list); err != nil {
		return nil, err
	}

	for _, rec := range list.Records {
		if r := a.toFields(rec.Fields).Record(rec.ID); r.Email == email {
			return r, nil
		}
	}
	return nil, nil
}

func (a *Airtable) Create(ctx context.Context, u NewUser) (*UserRecord, error) {
	body := airtableRecord{Fields: a.toColumns(u.Fields())}

	var rec airtableRecord
	if err := a.do(ctx, http.MethodPost, a.endpoint, body, &rec); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		return nil, fmt.Errorf("%w: create returned no record id", common.ErrDirectoryUnavailable)
	}

	// Airtable omits empty cells in responses; what was sent is authoritative.
	created := u.Fields()
	for k, v := range a.toFields(rec.Fields) {
		created[k] = v
	}
	return created.Record(rec.ID), nil
}

func (a *Airtable) Patch(ctx context.Context, id string, p ProfileUpdate) (Fields, error) {
	body := airtableRecord{Fields: a.toColumns(p.Fields())}

	var rec airtableRecord
	if err := a.do(ctx, http.MethodPatch, a.endpoint+"/"+url.PathEscape(id), body, &rec); err != nil {
		return nil, err
	}
	return a.toFields(rec.Fields), nil
}

func (a *Airtable) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("maxRecords", "1")
	q.Add("fields[]", a.columns.Email)
	return a.do(ctx, http.MethodGet, a.endpoint+"?"+q.Encode(), nil, &airtableList{})
}

func (a *Airtable) Close() error {
	a.client.CloseIdleConnections()
	return nil
}

func (a *Airtable) toColumns(f Fields) map[string]any {
	out := make(map[string]any, len(f))
	for _, p := range a.columns.pairs() {
		if v, ok := f[p[0]]; ok {
			out[p[1]] = v
		}
	}
	return out
}

func (a *Airtable) toFields(cols map[string]any) Fields {
	out := make(Fields, len(cols))
	for _, p := range a.columns.pairs() {
		v, ok := cols[p[1]]
		if !ok || v == nil {
			continue
		}
		switch value := v.(type) {
		case string:
			out[p[0]] = value
		case float64:
			out[p[0]] = strconv.FormatFloat(value, 'f', -1, 64)
		default:
			out[p[0]] = fmt.Sprint(value)
		}
	}
	return out
}

func (a *Airtable) do(ctx context.Context, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrDirectoryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s: %s; body: %s", common.ErrDirectoryUnavailable, method, a.endpoint, resp.Status, strings.TrimSpace(string(b)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", common.ErrDirectoryUnavailable, err)
	}
	return nil
}
