package summary

import "fmt"

const systemPrompt = "You are a neutral conflict analyst. Write factual, balanced prose in UK English. Do not speculate, do not take sides, and do not use headings or bullet points."

// buildConflictPrompt asks for a single-conflict briefing. displayName comes
// from the request, then the cached row, then a generic fallback; the country
// name is included when the caller supplied one.
func buildConflictPrompt(displayName, countryName string) string {
	subject := fmt.Sprintf("the armed conflict known as %q", displayName)
	if countryName != "" {
		subject += " in " + countryName
	}
	return fmt.Sprintf(
		"Write a summary of %s in 8 to 10 sentences. "+
			"Cover the main parties involved, the historical background, the causes of the conflict, "+
			"its geographic scope, and its humanitarian impact. "+
			"Keep a neutral, factual tone throughout.",
		subject)
}

// buildCountryPrompt asks for a country-level aggregate overview across all
// active conflicts in that country.
func buildCountryPrompt(displayName string) string {
	return fmt.Sprintf(
		"Write an analytical overview of the current conflict situation in %s in 8 to 10 sentences. "+
			"Cover the main armed actors, developments over the last twelve months, "+
			"the humanitarian impact on the civilian population, and the structural drivers of violence. "+
			"Keep a neutral, factual tone throughout.",
		displayName)
}

func (r Request) displayName(subject Subject, cachedName string) string {
	if subject.Kind == SubjectCountry {
		if r.CountryName != "" {
			return r.CountryName
		}
		if cachedName != "" {
			return cachedName
		}
		return fmt.Sprintf("country %d", subject.ID)
	}
	if r.ConflictName != "" {
		return r.ConflictName
	}
	if cachedName != "" {
		return cachedName
	}
	return fmt.Sprintf("Conflict %d", subject.ID)
}

func (r Request) prompt(subject Subject, cachedName string) string {
	name := r.displayName(subject, cachedName)
	if subject.Kind == SubjectCountry {
		return buildCountryPrompt(name)
	}
	return buildConflictPrompt(name, r.CountryName)
}
