// Command budgetctl runs month summaries and finalize against the budget
// database from a terminal.
package main

func main() {
	Execute()
}
