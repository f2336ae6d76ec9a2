// Package dsl parses c4x diagram text into a flat [ParseResult].
//
// # Overview
//
// The c4x language is a Mermaid-flowchart-like notation extended with C4
// semantics. A document is a sequence of line-oriented statements:
//
//	%%{ c4: container }%%
//	graph TB
//	    Customer[Customer<br/>Person]
//	    subgraph Bank["Internet Banking"] {
//	        direction LR
//	        Web[Web App<br/>Container<br/>$techn="React"]
//	        Container(api, "API", "Go", "JSON over HTTPS", $sprite="server")
//	    }
//	    Customer -->|Uses| Web
//	    Web ==> api
//	    classDef critical fill:#f00
//	    class Web,api critical
//
// The parser does not validate element types or relationship endpoints; that
// is the job of the model builder in package c4. It only checks that every
// statement is well formed and that class assignments name elements that
// exist somewhere in the document.
//
// # Default Direction
//
// A document without a graph statement gets "graph TB" injected after the
// view directive (or at the top). Positions reported by [Parse] always refer
// to the lines the user wrote, never to the injected one.
//
// # Errors
//
// Malformed statements yield an *errors.Error with code SYNTAX_ERROR and a
// 1-based line/column. Unknown statements are syntax errors, not skipped.
package dsl
