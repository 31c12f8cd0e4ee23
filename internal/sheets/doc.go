// Package sheets adapts the Google Sheets API to the tracker's data-source
// contract: fetch every row of the worksheet as column-name to raw-value
// mappings, and append one new row. Authentication uses a service-account
// JSON key file; the key never lives inside the repository.
package sheets
