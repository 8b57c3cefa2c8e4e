package extract

import (
	"fmt"

	"github.com/dvloznov/statement-insights/internal/gate"
)

// Categories is the fixed spending taxonomy the categorizer chooses from.
var Categories = []string{
	"Food & Dining",
	"Merchandise & Services",
	"Bills & Subscriptions",
	"Travel & Transportation",
	"Financial Transactions",
	"Uncategorized",
}

func statementPrompt(level gate.Level) string {
	basePrompt :=
		"You are a financial statement parser for US credit card statements.\n\n" +
			"Task:\n" +
			"- Parse ALL transactions in the statement text below, grouped by cardholder.\n" +
			"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
			"- Output a single JSON object.\n\n" +
			"The object must have these fields:\n" +
			"- \"transactions_by_cardholder\": object mapping each cardholder name to an array of transactions\n" +
			"- \"summary\": object with \"bank_name\", \"previous_balance\", \"new_balance\", \"payments\", \"credits\", \"purchases\"\n\n" +
			"Each transaction must have these fields:\n" +
			"- \"sale_date\": string, \"MM/DD\" or \"MM/DD/YYYY\" exactly as printed\n" +
			"- \"post_date\": string, same format\n" +
			"- \"description\": string, the merchant line as printed\n" +
			"- \"amount\": number (negative for payments and credits, positive for purchases)\n\n"

	rulesPrompt :=
		"Rules:\n" +
			"- Use cardholder names exactly as they appear in the statement.\n" +
			"- Skip table headers, section titles, and totals rows.\n" +
			"- Keep dates exactly as printed; do not convert formats.\n" +
			"- Do NOT wrap the response in code fences.\n" +
			"Output must begin with \"{\" and end with \"}\".\n"

	var hint string
	switch level {
	case gate.LevelStrict:
		hint = "Include only transactions you can read with full confidence; omit anything ambiguous.\n"
	case gate.LevelNormal:
		hint = "Include transactions you can read with reasonable confidence.\n"
	default:
		hint = "Include every plausible transaction, even when parts of a row are hard to read.\n"
	}

	return fmt.Sprintf("%s%s\n%s", basePrompt, hint, rulesPrompt)
}

func categorizerPrompt() string {
	prompt :=
		"You are a transaction categorizer for credit card statements.\n\n" +
			"Task:\n" +
			"- Assign exactly one category to each transaction in the JSON below.\n" +
			"- Output STRICT JSON only: the same object with a \"category\" field added to every transaction.\n\n" +
			"Allowed categories:\n"
	for _, c := range Categories {
		prompt += "- " + c + "\n"
	}
	prompt += "\nUse \"Uncategorized\" when nothing else fits.\n" +
		"Do NOT change any other field.\n" +
		"Do NOT wrap the response in code fences.\n" +
		"Output must begin with \"{\" and end with \"}\".\n"
	return prompt
}
