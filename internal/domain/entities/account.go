// Package entities defines the domain model for accounts, pages, lead forms
// and leads. Field names mirror the Graph API wire format where the value is
// pass-through, and the persisted JSON documents elsewhere.
package entities

// Page is a social page tied to an account, carrying its own access token.
// A page flagged permanent is additionally mirrored into the permanent pages
// registry, independent of the owning account's lifecycle.
type Page struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
	IsPermanent bool   `json:"isPermanent,omitempty"`
}

// PermanentPage is a registry entry: the page plus a non-owning back-reference
// to the account it originated from.
type PermanentPage struct {
	Page
	AccountID string `json:"accountId"`
}

// Account holds the credentials and pages of one advertising account.
// LongLivedTokenExpiry is an RFC3339 timestamp string, empty until the first
// token refresh.
type Account struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	AppID                string `json:"appId"`
	AppSecret            string `json:"appSecret"`
	ShortLivedToken      string `json:"shortLivedToken"`
	LongLivedToken       string `json:"longLivedToken"`
	LongLivedTokenExpiry string `json:"longLivedTokenExpiry"`
	Pages                []Page `json:"pages"`
}

// FindPage returns the page with the given id, or nil.
func (a *Account) FindPage(pageID string) *Page {
	for i := range a.Pages {
		if a.Pages[i].ID == pageID {
			return &a.Pages[i]
		}
	}
	return nil
}

// AccountsDocument is the on-disk shape of accounts.json.
type AccountsDocument struct {
	Accounts         []Account `json:"accounts"`
	CurrentAccountID string    `json:"currentAccountId"`
	LastUpdated      string    `json:"lastUpdated"`
}

// PermanentPagesDocument is the on-disk shape of permanent-pages.json.
type PermanentPagesDocument struct {
	Pages       []PermanentPage `json:"pages"`
	LastUpdated string          `json:"lastUpdated"`
}
