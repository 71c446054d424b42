// Package harness provides conformance testing for the SOQL grammar.
//
// The harness loads an object catalog, compiles a query described in
// YAML, and validates the dialect text, bindings and errors against the
// scenario's expectations and a golden snapshot.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: account_contacts
//	description: "Relationship subquery with a negated like"
//	schema:
//	  - objects.cue
//	objects:
//	  Contact: [Id, FirstName, Email]
//	query:
//	  from: Account
//	  joins:
//	    - table: Contact
//	  wheres:
//	    - column: Name
//	      operator: not like
//	      value: "%Corp%"
//	bind: false
//	expect:
//	  soql: "select * , (select Id,FirstName,Email from Contacts) from Account where (not Name like '%Corp%')"
//	  bindings: []
//
// The query block uses the queryfile format. Expect fields are optional;
// error is a substring match, the rest are exact.
//
// # Deterministic Testing
//
// Every scenario executes against:
//   - A fresh in-memory describe cache (store.Open(":memory:"))
//   - A recording resolver that numbers lookups from 1
//   - A discarded logger
//
// This ensures identical snapshots across runs for golden file comparison.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/account_contacts.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
