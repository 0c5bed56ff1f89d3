// Package dataprocessing reshapes wide marketing reports into long-format tables.
//
// A wide report has one row per metric and one column per day:
//
//	Jun 2025,     June 1, June 2
//	New Installs, 2818,   3287
//
// The Transformer turns it into one record per day, with standardized
// metric names and an ISO report_day built from the period found in the
// file name:
//
//	report_day,new_installs
//	2025-06-01,2818
//	2025-06-02,3287
//
// # Usage
//
//	inputs, err := dataprocessing.LoadTable("gh_data/Ghana - Growth Report - 2025 - June 2025 Overview.csv")
//	if err != nil {
//	    return err
//	}
//	t := dataprocessing.NewTransformer(logger)
//	result, err := t.TransformAll(inputs)
//
// TransformAll never stops at a bad input. Inputs that fail are recorded in
// the BatchResult as skipped together with their error kind, and only a batch
// without a single transformed input fails with a NoDataError.
//
// # Error Handling
//
// Errors are *errors.AppError values typed FILE_ACCESS, STRUCTURAL,
// CONTEXT_RESOLUTION, DATE_PARSE, NAME_COLLISION or NO_DATA.
package dataprocessing
