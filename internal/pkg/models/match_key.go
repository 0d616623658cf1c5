package models

// NormalizeTeamKey builds the join key for a team name.
//
// The key is lowercase ASCII letters and digits only. Everything else (spaces,
// hyphens, punctuation, accented letters) is dropped, not replaced, so
// "St. Louis Cardinals" and "ST LOUIS CARDINALS" share the key "stlouiscardinals".
// There is no Unicode folding: "é" is removed rather than mapped to "e".
func NormalizeTeamKey(raw string) string {
	if raw == "" {
		return ""
	}
	b := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b = append(b, c)
		case c >= 'A' && c <= 'Z':
			b = append(b, c+('a'-'A'))
		}
	}
	return string(b)
}

// NormalizeTeamKeyPtr is NormalizeTeamKey for optional names; nil maps to "".
func NormalizeTeamKeyPtr(raw *string) string {
	if raw == nil {
		return ""
	}
	return NormalizeTeamKey(*raw)
}
