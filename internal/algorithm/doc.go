// Package algorithm solves the 0/1 and bounded/unlimited knapsack problem.
//
// Two exact solvers (Bruteforce, BruteforceMultiple) enumerate every subset
// of items, or of single-copy slots, and serve as the reference optimum.
// Two greedy solvers (Greedy, GreedyMultiple) rank items by value/weight and
// fill the backpack in one pass. Every solver reports an iteration count that
// is used as a work metric when comparing them.
//
// Solvers are pure: they never modify the Dataset they are given, so a single
// Dataset may be shared between concurrent solver calls.
package algorithm
