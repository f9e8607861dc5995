package http

// tailorRequestSchema validates the JSON tailoring endpoint's request
// body before it reaches the pipeline.
const tailorRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "TailorRequest",
  "type": "object",
  "required": ["resumeHtml", "jobDescription"],
  "additionalProperties": false,
  "properties": {
    "resumeHtml": {
      "type": "string",
      "minLength": 1
    },
    "jobDescription": {
      "type": "string",
      "minLength": 1
    },
    "outputFilename": {
      "type": "string"
    },
    "pdfMethod": {
      "type": "string",
      "enum": ["", "auto", "embedded", "wkhtmltopdf", "chromium"]
    }
  }
}`
