package narrative

import (
	"fmt"
	"strings"
)

const analystPersona = `You are the WealthWise Senior Financial Analyst.
Your persona is professional, data-centric, and highly analytical.

### Your Expertise:
- Credit risk assessment and loan eligibility (Indian banking standards)
- Financial ratio analysis (Current, Quick, Debt-to-Equity, DSCR)
- Cash flow management and SME working capital optimization
- Tax optimization and GST compliance (India-specific)

### Operational Rules:
1. **Currency**: Always use Indian Rupee (₹).
2. **Bold Metrics**: Bold all specific financial values and status keywords.
3. **Structured Logic**: Use ### for headers and numbered lists for actions.
4. **Data-Driven**: Always ground advice in provided metrics or industry benchmarks.

### Response blueprint:
### Executive Summary
[Brief high-level overview of findings]

### Detailed Analysis
[Deep dive into metrics and trends]

### Recommendations & Action Plan
1. [Highest priority task with timeline]
2. [Secondary optimization with impact]`

var languageInstructions = map[string]string{
	"en": "Respond in English. Use a professional, data-driven tone.",
	"hi": "हिंदी में जवाब दें। पेशेवर वित्तीय शब्दावली का उपयोग करें।",
	"ta": "தமிழில் பதிலளிக்கவும். தொழில்முறை நிதி சொற்களைப் பயன்படுத்தவும்.",
	"te": "తెలుగులో సమాధానం ఇవ్వండి। వృత్తిపరమైన ఆర్థిక పదజాలం ఉపయోగించండి.",
	"mr": "मराठीत उत्तर द्या। व्यावसायिक आर्थिक शब्दावली वापरा.",
	"bn": "বাংলায় উত্তর দিন। পেশাদার আর্থিক পরিভাষা ব্যবহার করুন।",
	"gu": "ગુજરાતીમાં જવાબ આપો। વ્યાવસાયિક નાણાકીય શબ્દાવલીનો ઉપયોગ કરો.",
	"kn": "ಕನ್ನಡದಲ್ಲಿ ಉತ್ತರಿಸಿ। ವೃತ್ತಿಪರ ಹಣಕಾಸು ಪದಗಳನ್ನು ಬಳಸಿ.",
}

// SupportedLanguage reports whether lang has a response instruction.
func SupportedLanguage(lang string) bool {
	_, ok := languageInstructions[strings.ToLower(lang)]
	return ok
}

// SystemPrompt joins the analyst persona, an optional task instruction and the language
// instruction for lang. Unknown languages get no language line.
func SystemPrompt(lang, task string) string {
	parts := []string{analystPersona}
	if task != "" {
		parts = append(parts, task)
	}
	if instr, ok := languageInstructions[strings.ToLower(lang)]; ok {
		parts = append(parts, instr)
	}
	return strings.Join(parts, "\n\n")
}

// gemmaPrompt wraps a system and user turn in the chat template the local model expects.
func gemmaPrompt(system, user string) string {
	return fmt.Sprintf("<start_of_turn>system\n%s<end_of_turn>\n<start_of_turn>user\n%s<end_of_turn>\n<start_of_turn>model\n", system, user)
}

// CreditPrompt asks for a credit write-up of a scored business.
func CreditPrompt(business, industry string, turnover float64, rating string, health int) string {
	return fmt.Sprintf("Perform credit analysis for %s in %s. Turnover: ₹%.0f. Computed rating: %s. Financial health score: %d/100.",
		business, industry, turnover, rating, health)
}

// RiskPrompt asks for a risk write-up.
func RiskPrompt(business, trend string, runway, score int) string {
	return fmt.Sprintf("Assess financial risk for %s. Cash flow: %s. Cash runway: %d days. Computed risk score: %d/100.",
		business, trend, runway, score)
}

// ForecastPrompt asks for an explanation of a daily forecast.
func ForecastPrompt(business string, horizon int, strategy, summary string) string {
	return fmt.Sprintf("Explain a %d-day cash flow forecast for business %s produced by the %s model. Model notes: %s",
		horizon, business, strategy, summary)
}

// MonthlyPrompt asks for a narrative over a monthly projection.
func MonthlyPrompt(business string, months int, growthPercent float64) string {
	return fmt.Sprintf("Generate %d-month forecast for %s. Historical growth: %.1f%% per month.", months, business, growthPercent)
}
