package citations

import (
	"strings"
)

// Source is an authoritative reference site. URLTemplate may contain a {slug} placeholder.
type Source struct {
	Name        string
	URLTemplate string
	Description string
}

// Reference is a Source resolved for one lab test.
type Reference struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// String renders the reference in the "<source>: <url>" form used in interpretation results.
func (r Reference) String() string {
	return r.Name + ": " + r.URL
}

func (s Source) Resolve(slug string) Reference {
	return Reference{
		Name: s.Name,
		URL:  strings.ReplaceAll(s.URLTemplate, "{slug}", slug),
	}
}

var (
	MayoClinic = Source{
		Name:        "Mayo Clinic",
		URLTemplate: "https://www.mayoclinic.org/tests-procedures/{slug}/about/pac-20384692",
		Description: "Mayo Clinic medical information",
	}

	MedlinePlus = Source{
		Name:        "MedlinePlus (NIH)",
		URLTemplate: "https://medlineplus.gov/lab-tests/{slug}/",
		Description: "NIH National Library of Medicine",
	}

	// Fallback is returned for every test without a specific mapping.
	Fallback = Source{
		Name:        "Medical Reference",
		URLTemplate: "https://www.nlm.nih.gov/medlineplus/",
		Description: "National Library of Medicine general resource",
	}
)

var standard = []Source{MayoClinic, MedlinePlus}

// catalog maps normalized test names to sources in priority order. It is never written after init.
var catalog = buildCatalog(map[string][]string{
	"complete blood count": {
		"hemoglobin", "hematocrit", "red blood cell count", "rbc", "white blood cell count", "wbc",
		"platelet count", "platelets", "mean corpuscular volume", "mcv",
		"hemoglobin a1c", "a1c", "hba1c",
	},
	"metabolic panel": {
		"glucose", "blood glucose", "fasting glucose", "sodium", "potassium", "chloride", "co2",
		"carbon dioxide", "bicarbonate", "bun", "blood urea nitrogen", "creatinine", "calcium",
		"albumin", "total protein",
	},
	"lipid panel": {
		"cholesterol", "total cholesterol", "ldl", "low-density lipoprotein", "hdl",
		"high-density lipoprotein", "triglycerides",
	},
	"liver function": {
		"ast", "aspartate aminotransferase", "alt", "alanine aminotransferase",
		"alkaline phosphatase", "alp", "bilirubin", "total bilirubin",
	},
	"kidney function": {
		"bun/creatinine ratio", "gfr", "glomerular filtration rate", "uric acid",
	},
	"thyroid": {
		"tsh", "thyroid stimulating hormone", "t3", "t4", "thyroxine",
	},
	"vitamins": {
		"vitamin b12", "b12", "cobalamin", "folate", "folic acid", "vitamin d", "d25",
		"25-hydroxyvitamin d",
	},
	"cardiac markers": {
		"troponin", "high-sensitivity troponin", "creatine kinase", "ck", "ck-mb", "myoglobin",
		"bnp", "b-type natriuretic peptide",
	},
	"hormones": {
		"cortisol", "testosterone", "estrogen", "progesterone", "psa", "prostate specific antigen",
	},
	"inflammatory markers": {
		"crp", "c-reactive protein", "esr", "erythrocyte sedimentation rate",
	},
	"coagulation": {
		"pt", "prothrombin time", "inr", "international normalized ratio", "ptt",
		"partial thromboplastin time", "aptt", "activated partial thromboplastin time",
	},
})

func buildCatalog(groups map[string][]string) map[string][]Source {
	entries := make(map[string][]Source)
	for _, names := range groups {
		for _, name := range names {
			entries[NormalizeName(name)] = standard
		}
	}
	return entries
}

// NormalizeName lowercases the name and collapses any run of whitespace into a single space.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Slug turns a normalized name into a URL path segment.
func Slug(name string) string {
	return strings.NewReplacer(" ", "-", "/", "-").Replace(NormalizeName(name))
}

// LookupPreferred returns the highest-priority reference for the test, or the fallback.
func LookupPreferred(name string) Reference {
	key := NormalizeName(name)
	sources, ok := catalog[key]
	if !ok {
		return Fallback.Resolve("")
	}
	return sources[0].Resolve(Slug(key))
}

// LookupAll returns every reference for a known test in priority order, or only the fallback.
func LookupAll(name string) []Reference {
	key := NormalizeName(name)
	sources, ok := catalog[key]
	if !ok {
		return []Reference{Fallback.Resolve("")}
	}

	refs := make([]Reference, 0, len(sources))
	for _, source := range sources {
		refs = append(refs, source.Resolve(Slug(key)))
	}
	return refs
}

func IsKnown(name string) bool {
	_, ok := catalog[NormalizeName(name)]
	return ok
}

// Size reports the number of distinct test names in the catalog.
func Size() int {
	return len(catalog)
}
