package timezone

// Zone is an entry of the zone table shown by the converter.
type Zone struct {
	Label string
	ID    string
}

var zones = [...]Zone{
	{"Universal Time (UTC)", "UTC"},
	{"Greenwich Mean Time (GMT)", "Etc/GMT"},

	{"India (IST)", "Asia/Kolkata"},
	{"Dubai (GST)", "Asia/Dubai"},
	{"Tokyo (JST)", "Asia/Tokyo"},
	{"Singapore (SGT)", "Asia/Singapore"},
	{"Hong Kong (HKT)", "Asia/Hong_Kong"},
	{"Shanghai (CST)", "Asia/Shanghai"},
	{"Seoul (KST)", "Asia/Seoul"},
	{"Bangkok (ICT)", "Asia/Bangkok"},
	{"Jakarta (WIB)", "Asia/Jakarta"},
	{"Manila (PHT)", "Asia/Manila"},
	{"Karachi (PKT)", "Asia/Karachi"},
	{"Dhaka (BST)", "Asia/Dhaka"},
	{"Kathmandu (NPT)", "Asia/Kathmandu"},
	{"Colombo (IST)", "Asia/Colombo"},
	{"Yangon (MMT)", "Asia/Yangon"},
	{"Riyadh (AST)", "Asia/Riyadh"},
	{"Tehran (IRST)", "Asia/Tehran"},
	{"Jerusalem (IST)", "Asia/Jerusalem"},
	{"Kabul (AFT)", "Asia/Kabul"},
	{"Tashkent (UZT)", "Asia/Tashkent"},
	{"Almaty (ALMT)", "Asia/Almaty"},
	{"Ho Chi Minh (ICT)", "Asia/Ho_Chi_Minh"},
	{"Taipei (CST)", "Asia/Taipei"},
	{"Kuala Lumpur (MYT)", "Asia/Kuala_Lumpur"},

	{"New York (EST)", "America/New_York"},
	{"Chicago (CST)", "America/Chicago"},
	{"Denver (MST)", "America/Denver"},
	{"Los Angeles (PST)", "America/Los_Angeles"},
	{"Phoenix (MST)", "America/Phoenix"},
	{"Anchorage (AKST)", "America/Anchorage"},
	{"Honolulu (HST)", "Pacific/Honolulu"},
	{"Toronto (EST)", "America/Toronto"},
	{"Vancouver (PST)", "America/Vancouver"},
	{"Mexico City (CST)", "America/Mexico_City"},
	{"Halifax (AST)", "America/Halifax"},
	{"St. John's (NST)", "America/St_Johns"},

	{"São Paulo (BRT)", "America/Sao_Paulo"},
	{"Buenos Aires (ART)", "America/Argentina/Buenos_Aires"},
	{"Santiago (CLT)", "America/Santiago"},
	{"Bogota (COT)", "America/Bogota"},
	{"Lima (PET)", "America/Lima"},
	{"Caracas (VET)", "America/Caracas"},

	{"London (GMT/BST)", "Europe/London"},
	{"Berlin (CET)", "Europe/Berlin"},
	{"Paris (CET)", "Europe/Paris"},
	{"Rome (CET)", "Europe/Rome"},
	{"Madrid (CET)", "Europe/Madrid"},
	{"Amsterdam (CET)", "Europe/Amsterdam"},
	{"Moscow (MSK)", "Europe/Moscow"},
	{"Istanbul (TRT)", "Europe/Istanbul"},
	{"Kyiv (EET)", "Europe/Kyiv"},
	{"Athens (EET)", "Europe/Athens"},
	{"Helsinki (EET)", "Europe/Helsinki"},
	{"Dublin (IST)", "Europe/Dublin"},
	{"Zurich (CET)", "Europe/Zurich"},

	{"Sydney (AEST)", "Australia/Sydney"},
	{"Melbourne (AEST)", "Australia/Melbourne"},
	{"Brisbane (AEST)", "Australia/Brisbane"},
	{"Perth (AWST)", "Australia/Perth"},
	{"Adelaide (ACST)", "Australia/Adelaide"},
	{"Auckland (NZST)", "Pacific/Auckland"},
	{"Fiji (FJT)", "Pacific/Fiji"},

	{"Cairo (EET)", "Africa/Cairo"},
	{"Johannesburg (SAST)", "Africa/Johannesburg"},
	{"Lagos (WAT)", "Africa/Lagos"},
	{"Nairobi (EAT)", "Africa/Nairobi"},
	{"Casablanca (WET)", "Africa/Casablanca"},
	{"Accra (GMT)", "Africa/Accra"},
}
