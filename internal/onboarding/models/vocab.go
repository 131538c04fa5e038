package models

// Option is a value/label pair from a fixed selection list.
type Option struct {
	Value string
	Label string
}

// Industries accepted for CompanyInfo.Industry.
var Industries = []Option{
	{"payment_service_provider", "Payment Service Provider"},
	{"commercial_acquirer", "Commercial Acquirer"},
	{"event_organizer", "Event Organizer"},
	{"media_house", "Media House"},
	{"online_publisher", "Online Publisher"},
	{"other", "Other"},
}

// RevenueRanges accepted for FinancialInfo.AnnualRevenue.
var RevenueRanges = []Option{
	{"<50k", "< 50,000 CHF"},
	{"50k-250k", "50,000 – 250,000 CHF"},
	{"250k-1m", "250,000 – 1,000,000 CHF"},
	{"1m-5m", "1,000,000 – 5,000,000 CHF"},
	{"5m-25m", "5,000,000 – 25,000,000 CHF"},
	{"25m-100m", "25,000,000 – 100,000,000 CHF"},
	{">100m", "> 100,000,000 CHF"},
}

// AssetRanges accepted for FinancialInfo.TotalAssets.
var AssetRanges = []Option{
	{"<100k", "< 100,000 CHF"},
	{"100k-500k", "100,000 – 500,000 CHF"},
	{"500k-2m", "500,000 – 2,000,000 CHF"},
	{"2m-10m", "2,000,000 – 10,000,000 CHF"},
	{"10m-50m", "10,000,000 – 50,000,000 CHF"},
	{"50m-200m", "50,000,000 – 200,000,000 CHF"},
	{">200m", "> 200,000,000 CHF"},
}

// LiabilityRanges accepted for FinancialInfo.Liabilities.
var LiabilityRanges = []Option{
	{"none", "No liabilities"},
	{"<50k", "< 50,000 CHF"},
	{"50k-250k", "50,000 – 250,000 CHF"},
	{"250k-1m", "250,000 – 1,000,000 CHF"},
	{"1m-5m", "1,000,000 – 5,000,000 CHF"},
	{"5m-25m", "5,000,000 – 25,000,000 CHF"},
	{">25m", "> 25,000,000 CHF"},
}

// BusinessPurposes accepted for TransactionInfo.BusinessPurposes.
var BusinessPurposes = []Option{
	{"payment_processing", "Payment Processing"},
	{"merchant_services", "Merchant Services"},
	{"ecommerce", "E-commerce Solutions"},
	{"subscription_billing", "Subscription Billing"},
	{"international_payments", "International Payments"},
	{"crypto_services", "Cryptocurrency Services"},
	{"financial_services", "Financial Services"},
	{"consulting", "Consulting Services"},
	{"other", "Other"},
}

// AssetCategories are the fixed choices for TransactionInfo.AssetCategory;
// anything else is the free-text "other" escape.
var AssetCategories = []string{"business", "personal", "investment"}

var AssetNatures = []string{
	"Cash deposits", "Bank transfers", "Investment proceeds", "Business revenue",
	"Inheritance", "Gift", "Sale of assets", "Insurance proceeds", "Legal settlements", "Other",
}

var AssetOrigins = []string{
	"Business operations", "Employment income", "Investment returns", "Inheritance",
	"Gift from family", "Sale of property", "Insurance payout", "Legal settlement", "Other",
}

var PepPositions = []string{
	"Head of State or Government", "Minister or Deputy Minister", "Member of Parliament",
	"Supreme Court Judge", "Central Bank Governor", "Ambassador or Diplomat",
	"High-ranking Military Officer", "CEO of State-owned Enterprise", "Political Party Leader", "Other",
}

// SanctionedCountries is the selection list for SanctionsDetails.Country.
var SanctionedCountries = []string{
	"Afghanistan", "Belarus", "Central African Republic", "Cuba", "Democratic Republic of Congo",
	"Eritrea", "Guinea-Bissau", "Iran", "Iraq", "Lebanon", "Libya", "Mali", "Myanmar",
	"Nicaragua", "North Korea", "Russia", "Somalia", "South Sudan", "Sudan", "Syria",
	"Venezuela", "Yemen", "Zimbabwe",
}

// VideoTimeSlots are the bookable video identification slots.
var VideoTimeSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
}

// HasOption reports whether value is one of opts.
func HasOption(opts []Option, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}

// OptionLabel returns the label for value, or value itself when unknown.
func OptionLabel(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
