// Package chain composes filters into ordered chains.
//
// A Cascade chain feeds the output of each stage into the next. A Series
// chain hands every stage the same original input and concatenates the stage
// outputs in configuration order: for an n-sample input and k stages the
// result holds k*n samples; for a 2-D input the stage grids are stacked
// vertically.
//
// A Chain is itself a [filter.Filter], so chains nest. Configuration (Add)
// must not race with Apply.
package chain
