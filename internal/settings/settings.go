// Package settings holds the configuration value passed into a conversion run
// and the profile store it is seeded from.
package settings

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"revolut-sepa-converter/internal/domain"
	"revolut-sepa-converter/internal/payments"
)

const (
	DefaultTimeZone        = "Europe/Ljubljana"
	DefaultCurrency        = "EUR"
	DefaultOwnerCountry    = "SI"
	DefaultServicerBIC     = "REVOLT21"
	DefaultServicerName    = "Revolut Payments UAB"
	DefaultServicerCountry = "LT"
)

// Environment variables that override the stored profile.
const (
	EnvTimeZone      = "SEPA_TIME_ZONE"
	EnvCurrency      = "SEPA_CURRENCY"
	EnvIBAN          = "SEPA_IBAN"
	EnvParty         = "SEPA_PARTY"
	EnvAddressLine1  = "SEPA_ADDR_LINE_1"
	EnvAddressLine2  = "SEPA_ADDR_LINE_2"
	EnvOwnerCountry  = "SEPA_COUNTRY"
	EnvPersonalIBANs = "SEPA_PERSONAL_IBANS"
	EnvStrictPeriod  = "SEPA_STRICT_PERIOD"
)

type Settings struct {
	TimeZone        string
	Currency        string
	IBAN            string
	Party           string
	AddressLine1    string
	AddressLine2    string
	OwnerCountry    string
	ServicerBIC     string
	ServicerName    string
	ServicerCountry string
	PersonalIBANs   []string
	StrictPeriod    bool
}

func Defaults() Settings {
	return Settings{
		TimeZone:        DefaultTimeZone,
		Currency:        DefaultCurrency,
		OwnerCountry:    DefaultOwnerCountry,
		ServicerBIC:     DefaultServicerBIC,
		ServicerName:    DefaultServicerName,
		ServicerCountry: DefaultServicerCountry,
	}
}

// FromProfile returns the defaults with the profile's identity applied.
func FromProfile(p Profile) Settings {
	s := Defaults()
	s.IBAN = p.IBAN
	s.Party = p.Party
	s.AddressLine1 = p.AddressLine1
	s.AddressLine2 = p.AddressLine2
	s.PersonalIBANs = p.PersonalIBANs
	return s
}

// FromEnv applies overrides from the process environment.
func (s Settings) FromEnv() (Settings, error) {
	return s.Override(os.LookupEnv)
}

// Override applies every variable lookup reports as set.
func (s Settings) Override(lookup func(string) (string, bool)) (Settings, error) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	str(EnvTimeZone, &s.TimeZone)
	str(EnvCurrency, &s.Currency)
	str(EnvIBAN, &s.IBAN)
	str(EnvParty, &s.Party)
	str(EnvAddressLine1, &s.AddressLine1)
	str(EnvAddressLine2, &s.AddressLine2)
	str(EnvOwnerCountry, &s.OwnerCountry)

	if v, ok := lookup(EnvPersonalIBANs); ok {
		s.PersonalIBANs = payments.ParseIBANList(v)
	}
	if v, ok := lookup(EnvStrictPeriod); ok && strings.TrimSpace(v) != "" {
		strict, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return s, fmt.Errorf("%w: %s: %w", domain.ErrConfig, EnvStrictPeriod, err)
		}
		s.StrictPeriod = strict
	}

	s.Currency = strings.ToUpper(s.Currency)
	s.IBAN = strings.ToUpper(s.IBAN)
	return s, nil
}

// Validate checks what a statement run needs. Payment runs only need
// ValidatePayments.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.IBAN) == "" {
		return fmt.Errorf("%w: account IBAN is not set, run setup or set %s", domain.ErrConfig, EnvIBAN)
	}
	if strings.TrimSpace(s.Party) == "" {
		return fmt.Errorf("%w: account holder name is not set, run setup or set %s", domain.ErrConfig, EnvParty)
	}
	if len(s.Currency) != 3 {
		return fmt.Errorf("%w: currency %q is not an ISO 4217 code", domain.ErrConfig, s.Currency)
	}
	if _, err := s.Location(); err != nil {
		return err
	}
	return nil
}

func (s Settings) ValidatePayments() error {
	for _, iban := range s.PersonalIBANs {
		if len(iban) < 2 {
			return fmt.Errorf("%w: personal IBAN %q is too short", domain.ErrConfig, iban)
		}
	}
	return nil
}

func (s Settings) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load time zone %q: %w", domain.ErrConfig, s.TimeZone, err)
	}
	return loc, nil
}

// Account is the statement account described by these settings.
func (s Settings) Account() domain.Account {
	var lines []string
	for _, l := range []string{s.AddressLine1, s.AddressLine2} {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}

	return domain.Account{
		IBAN: s.IBAN,
		Owner: domain.Party{
			Name:    s.Party,
			Address: domain.PostalAddress{Country: s.OwnerCountry, Lines: lines},
		},
		Servicer: domain.Branch{
			BIC:     s.ServicerBIC,
			Name:    s.ServicerName,
			Country: s.ServicerCountry,
		},
	}
}
