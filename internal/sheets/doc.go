// Package sheets reads wide-format reports straight from a Google spreadsheet.
//
// Every tab of the spreadsheet is one report. Tabs are named after the
// spreadsheet title and the tab title, so "Ghana Growth 2025" with a tab
// "June" is treated like a file "Ghana Growth 2025 - June.csv".
package sheets
