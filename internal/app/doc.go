// Package app wires configuration, input discovery, transformation, output
// writing and upload into a single batch run.
//
// A run never stops at a bad input. Every input ends up in the run result and
// the manifest as processed or skipped, and the long-format output is written
// only when at least one input was transformed.
//
//	pipeline, err := app.New(ctx, cfg, logger, providers)
//	if err != nil {
//	    return err
//	}
//	result, err := pipeline.Run(ctx)
package app
