// Package graph models the resolved semantic declaration graph that the ABI
// generator consumes: classes, methods, fields and type aliases, each
// declared in a lexical scope.
//
// A front-end normally builds the graph. Load and Parse build one from a
// YAML or JSON description:
//
//	aliases:
//	  - {name: Balance, type: u64}
//	classes:
//	  - name: Account
//	    implements: [Serializable]
//	    decorators: [{name: database, args: ['"accounts"']}]
//	    fields:
//	      - {name: owner, type: string}
//	      - {name: balance, type: Balance}
//	  - name: Token
//	    extends: Contract
//	    methods:
//	      - name: transfer
//	        decorators: [{name: action}]
//	        params: [{name: to, type: string}, {name: amount, type: u64}]
//	        returns: void
package graph
