package config

// builtinRules returns the rule set shipped with the service. It
// covers the field names that commonly carry credentials or personal
// data in request payloads. User rules files override entries with the
// same name.
func builtinRules() map[string]Rule {
	return map[string]Rule{
		"password":      {Strategy: "full"},
		"passwd":        {Strategy: "full"},
		"secret":        {Strategy: "full"},
		"token":         {Strategy: "full"},
		"access_token":  {Strategy: "full"},
		"refresh_token": {Strategy: "full"},
		"api_key":       {Strategy: "full"},
		"apikey":        {Strategy: "full"},
		"authorization": {Strategy: "full"},
		"private_key":   {Strategy: "full"},
		"credential":    {Strategy: "full"},
		"session":       {Strategy: "full"},

		"email": {Strategy: "first_last"},

		"phone":          {Strategy: "last_four"},
		"card_number":    {Strategy: "last_four"},
		"credit_card":    {Strategy: "last_four"},
		"account_number": {Strategy: "last_four"},
		"ssn":            {Strategy: "last_four"},
	}
}
