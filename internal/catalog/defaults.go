package catalog

import "github.com/nikolastas/logistis-sub000/internal/models"

// Default returns the built-in household spending catalog. Keywords are
// split into words for matching, so every word must be distinctive on its own.
func Default() *Catalog {
	return New([]models.Category{
		{ID: "groceries", Name: "Groceries", Keywords: []string{"supermarket", "σουπερμαρκετ", "σκλαβενιτης", "sklavenitis", "μασουτης", "masoutis", "βασιλοπουλος", "vasilopoulos", "lidl", "mymarket", "κρητικος", "γαλαξιας", "bazaar", "αρτοποιειο", "κρεοπωλειο"}},
		{ID: "dining", Name: "Dining", Keywords: []string{"restaurant", "εστιατοριο", "ταβερνα", "καφετερια", "coffee", "efood", "wolt", "ψητοπωλειο", "σουβλακι", "pizza", "burger", "starbucks"}},
		{ID: "transport", Name: "Transport", Keywords: []string{"oasa", "οασα", "taxi", "ταξι", "freenow", "uber", "κτελ", "ktel", "διοδια", "aodos", "parking", "σταθμευση"}},
		{ID: "fuel", Name: "Fuel", Keywords: []string{"shell", "avin", "revoil", "elin", "καυσιμα", "βενζινη", "πρατηριο"}},
		{ID: "utilities", Name: "Utilities", Keywords: []string{"δεη", "ppc", "ευδαπ", "eydap", "heron", "protergia", "elpedison", "zenith", "αεριο", "ρευμα", "υδρευση"}},
		{ID: "telecom", Name: "Telecom", Keywords: []string{"cosmote", "vodafone", "nova", "wind"}},
		{ID: "rent", Name: "Rent", Keywords: []string{"ενοικιο", "κοινοχρηστα", "μισθωμα", "landlord"}},
		{ID: "health", Name: "Health", Keywords: []string{"pharmacy", "φαρμακειο", "ιατρειο", "ιατρος", "doctor", "hospital", "νοσοκομειο", "κλινικη", "οδοντιατρος", "διαγνωστικο"}},
		{ID: "shopping", Name: "Shopping", Keywords: []string{"skroutz", "amazon", "plaisio", "πλαισιο", "kotsovolos", "κωτσοβολος", "ikea", "zara", "jumbo"}},
		{ID: "entertainment", Name: "Entertainment", Keywords: []string{"cinema", "σινεμα", "θεατρο", "theater", "concert", "συναυλια", "ticketmaster"}},
		{ID: "subscriptions", Name: "Subscriptions", Keywords: []string{"netflix", "spotify", "disney", "youtube", "icloud", "subscription", "συνδρομη"}},
		{ID: "travel", Name: "Travel", Keywords: []string{"hotel", "ξενοδοχειο", "booking", "airbnb", "ryanair", "airlines", "ferry", "ακτοπλοια", "αεροπορικα"}},
		{ID: "salary", Name: "Salary", Keywords: []string{"salary", "μισθος", "μισθοδοσια", "payroll", "αποδοχες", "επιδομα"}},
		{ID: "cash", Name: "Cash", Keywords: []string{"αναληψη", "withdrawal", "μετρητα"}},
		{ID: "fees", Name: "Bank fees", Keywords: []string{"προμηθεια", "commission", "τηρησης", "επιβαρυνση"}},
		{ID: "insurance", Name: "Insurance", Keywords: []string{"insurance", "ασφαλεια", "ασφαλιστρα", "interamerican", "generali", "allianz"}},
		{ID: "education", Name: "Education", Keywords: []string{"φροντιστηριο", "school", "σχολειο", "πανεπιστημιο", "udemy", "coursera", "βιβλιοπωλειο"}},
		{ID: "taxes", Name: "Taxes", Keywords: []string{"aade", "ααδε", "εφορια", "ενφια", "κυκλοφοριας", "efka", "εφκα"}},
	})
}
