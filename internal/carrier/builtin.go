package carrier

import "github.com/danmuck/cdrdecode/internal/value"

var countries = map[string]string{
	"208": "France",
	"214": "Spain",
	"222": "Italy",
	"234": "United Kingdom",
	"240": "Sweden",
	"262": "Germany",
	"302": "Canada",
	"310": "United States",
	"311": "United States",
	"334": "Mexico",
	"404": "India",
	"655": "South Africa",
	"722": "Argentina",
	"724": "Brazil",
	"730": "Chile",
	"732": "Colombia",
}

var builtin = []value.Operator{
	{MCC: "724", MNC: "02", Name: "TIM"},
	{MCC: "724", MNC: "03", Name: "TIM"},
	{MCC: "724", MNC: "04", Name: "TIM"},
	{MCC: "724", MNC: "05", Name: "Claro"},
	{MCC: "724", MNC: "06", Name: "Vivo"},
	{MCC: "724", MNC: "10", Name: "Vivo"},
	{MCC: "724", MNC: "11", Name: "Vivo"},
	{MCC: "724", MNC: "15", Name: "Sercomtel"},
	{MCC: "724", MNC: "16", Name: "Brasil Telecom"},
	{MCC: "724", MNC: "23", Name: "Vivo"},
	{MCC: "724", MNC: "31", Name: "Oi"},
	{MCC: "724", MNC: "32", Name: "Algar Telecom"},
	{MCC: "724", MNC: "33", Name: "Algar Telecom"},
	{MCC: "724", MNC: "34", Name: "Algar Telecom"},
	{MCC: "722", MNC: "07", Name: "Movistar"},
	{MCC: "722", MNC: "310", Name: "Claro"},
	{MCC: "722", MNC: "34", Name: "Personal"},
	{MCC: "730", MNC: "01", Name: "Entel"},
	{MCC: "730", MNC: "02", Name: "Movistar"},
	{MCC: "730", MNC: "03", Name: "Claro"},
	{MCC: "732", MNC: "101", Name: "Claro"},
	{MCC: "732", MNC: "123", Name: "Movistar"},
	{MCC: "334", MNC: "020", Name: "Telcel"},
	{MCC: "334", MNC: "030", Name: "Movistar"},
	{MCC: "334", MNC: "050", Name: "AT&T"},
	{MCC: "310", MNC: "410", Name: "AT&T"},
	{MCC: "310", MNC: "260", Name: "T-Mobile"},
	{MCC: "311", MNC: "480", Name: "Verizon"},
	{MCC: "302", MNC: "720", Name: "Rogers"},
	{MCC: "302", MNC: "610", Name: "Bell"},
	{MCC: "234", MNC: "10", Name: "O2"},
	{MCC: "234", MNC: "15", Name: "Vodafone"},
	{MCC: "234", MNC: "30", Name: "EE"},
	{MCC: "262", MNC: "01", Name: "Telekom"},
	{MCC: "262", MNC: "02", Name: "Vodafone"},
	{MCC: "262", MNC: "03", Name: "O2"},
	{MCC: "208", MNC: "01", Name: "Orange"},
	{MCC: "208", MNC: "10", Name: "SFR"},
	{MCC: "208", MNC: "20", Name: "Bouygues"},
	{MCC: "214", MNC: "01", Name: "Vodafone"},
	{MCC: "214", MNC: "07", Name: "Movistar"},
	{MCC: "222", MNC: "01", Name: "TIM"},
	{MCC: "222", MNC: "10", Name: "Vodafone"},
	{MCC: "240", MNC: "01", Name: "Telia"},
	{MCC: "240", MNC: "07", Name: "Tele2"},
	{MCC: "404", MNC: "10", Name: "Airtel"},
	{MCC: "655", MNC: "01", Name: "Vodacom"},
	{MCC: "655", MNC: "10", Name: "MTN"},
}
