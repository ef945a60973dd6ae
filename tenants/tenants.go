// Package tenants holds the curated list of known OMNIS catalog
// institutions offered by the account setup wizard.
package tenants

// Tenant describes one library organization's coordinates within the
// shared catalog platform
type Tenant struct {
	Name        string
	BaseURL     string
	Institution string
	View        string
}

// Known lists the institutions the setup wizard offers out of the box
var Known = []Tenant{
	{
		Name:        "Biblioteka Raczyńskich (Poznań)",
		BaseURL:     "https://omnis-br.primo.exlibrisgroup.com",
		Institution: "48OMNIS_BRP",
		View:        "48OMNIS_BRP:BRACZ",
	},
	{
		Name:        "Biblioteka Narodowa",
		BaseURL:     "https://katalogi.bn.org.pl",
		Institution: "48OMNIS_NLOP",
		View:        "48OMNIS_NLOP:48OMNIS_NLOP",
	},
	{
		Name:        "Biblioteka UAM (Poznań)",
		BaseURL:     "https://katalog.amu.edu.pl",
		Institution: "48OMNIS_AMU",
		View:        "48OMNIS_AMU:AMU",
	},
	{
		Name:        "Biblioteka Publiczna w Łukowie",
		BaseURL:     "https://omnis-lukowski3.primo.exlibrisgroup.com",
		Institution: "48OMNIS_LUK3",
		View:        "48OMNIS_LUK3:LUK3_3",
	},
	{
		Name:        "Dolnośląska Biblioteka Publiczna (Wrocław)",
		BaseURL:     "https://omnis-dbp.primo.exlibrisgroup.com",
		Institution: "48OMNIS_WBP",
		View:        "48OMNIS_WBP:48OMNIS_WBP",
	},
	{
		Name:        "Uniwersytet Jagielloński (Kraków)",
		BaseURL:     "https://katalogi.uj.edu.pl",
		Institution: "48OMNIS_UJA",
		View:        "48OMNIS_UJA:uja",
	},
	{
		Name:        "Uniwersytet Mikołaja Kopernika (Toruń)",
		BaseURL:     "https://szukaj.bu.umk.pl",
		Institution: "48OMNIS_UMKWT",
		View:        "48OMNIS_UMKWT:UMK",
	},
	{
		Name:        "Wojewódzka Biblioteka Publiczna (Kielce)",
		BaseURL:     "https://omnis-swietokrzyskie2.primo.exlibrisgroup.com",
		Institution: "48OMNIS_SW2",
		View:        "48OMNIS_SW2:SW2_4",
	},
	{
		Name:        "Koszalińska Biblioteka Publiczna",
		BaseURL:     "https://omnis-kbp.primo.exlibrisgroup.com",
		Institution: "48OMNIS_KBP",
		View:        "48OMNIS_KBP:48KBP",
	},
	{
		Name:        "Książnica Zamojska (Zamość)",
		BaseURL:     "https://omnis-zamojski.primo.exlibrisgroup.com",
		Institution: "48OMNIS_ZAM",
		View:        "48OMNIS_ZAM:ZAM_1",
	},
}
