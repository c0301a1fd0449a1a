// Command steelbox plans tab/slot joinery for laser-cut steel tube
// frames: it detects joints in a parametric box layout, generates
// mating tab/slot geometry with corner relief, checks interference,
// and reports a cut list.
package main

func main() {
	Execute()
}
