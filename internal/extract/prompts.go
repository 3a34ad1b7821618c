package extract

// Prompt text for the extraction and summarization calls. The wording
// follows the single-image contract: consolidation across images is done
// locally, not by the model.

const extractionSystemPrompt = `You are an expert bill data extractor. You read bill and receipt images with high accuracy and always respond with valid JSON.`

const extractionPrompt = `Examine this bill image and extract the following fields:

- vendor: The vendor name as printed on the bill.
- date: The bill date, formatted as YYYY-MM-DD. If no date is visible, use an empty string.
- amount: The total amount of the bill as a number, without currency symbols.
- lineItems: An array of individual line items that have an associated cost. Each entry has "description" (string) and "amount" (number). Omit items without a clear cost. If there are no line items, return an empty array.

Return a JSON object with this exact structure:
{
  "vendor": "string",
  "date": "YYYY-MM-DD",
  "amount": number,
  "lineItems": [{"description": "string", "amount": number}]
}

Extract exactly what you see. Do not guess or make up values.`

const summarySystemPrompt = `You are an expert data summarizer.`

const summaryPrompt = `You will be provided with extracted data from one or more bills, in JSON format. Provide a brief, human-readable summary of this data, highlighting key information such as the primary vendor, total amount and the number of line items, so the user can quickly verify the accuracy of the extraction.

Extracted Data: %s`
