// Package directory loads the employer records the verification
// dialogue checks against: the canonical company list and the mapping
// from email address to employer of record. The data is read once at
// startup and immutable afterwards, so lookups need no locking.
package directory

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Directory holds the employer records.
type Directory struct {
	companies []string
	byEmail   map[string]string
}

type fileSchema struct {
	Users map[string]struct {
		CompanyName string `json:"company_name"`
	} `json:"users"`
	CompanyList []string `json:"company_list"`
}

// Load reads the records file. The file carries a users object keyed
// by email and an ordered company_list array.
func Load(path string) (*Directory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read directory file: %w", err)
	}
	var schema fileSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("parse directory file %s: %w", path, err)
	}
	d := &Directory{
		companies: schema.CompanyList,
		byEmail:   make(map[string]string, len(schema.Users)),
	}
	for email, u := range schema.Users {
		d.byEmail[strings.ToLower(email)] = u.CompanyName
	}
	return d, nil
}

// Companies returns a copy of the ordered company list.
func (d *Directory) Companies() []string {
	return append([]string(nil), d.companies...)
}

// FirstN returns a copy of the first n companies, or all of them when
// fewer exist.
func (d *Directory) FirstN(n int) []string {
	if n > len(d.companies) {
		n = len(d.companies)
	}
	return append([]string(nil), d.companies[:n]...)
}

// Len returns the number of companies in the directory.
func (d *Directory) Len() int {
	return len(d.companies)
}

// EmploymentFor looks up the employer of record for an email address.
func (d *Directory) EmploymentFor(email string) (string, bool) {
	company, ok := d.byEmail[strings.ToLower(strings.TrimSpace(email))]
	return company, ok
}

// Canonical resolves input to a company entry by case-insensitive
// exact match and returns the directory's spelling of it.
func (d *Directory) Canonical(input string) (string, bool) {
	lowered := strings.ToLower(strings.TrimSpace(input))
	for _, name := range d.companies {
		if strings.ToLower(name) == lowered {
			return name, true
		}
	}
	return "", false
}
