// Package pipeline assembles CAMP pipeline orchestrations.
//
// A pipeline is an ordered list of step configurations. The assembler links them into a
// singly-linked chain of step nodes: every node gets a freshly generated identifier and points
// at the identifier of the node that follows it, while the last node carries no next step rule.
// Identifiers are generated up front and each node is built from its own position alone, so a
// chain never has to be patched after the fact.
//
// Step configurations are opaque to the assembler. Assemble is generic over their type and only
// threads them through, which keeps the package independent of the shape of any step kind.
//
// Identifier generation is an injected capability. The default source draws random UUIDs and is
// safe for concurrent use, so independent assemblies never collide. Tests can substitute a
// deterministic sequence.
//
// Validate checks any orchestration document, assembled here or received from elsewhere, against
// the chain invariants: distinct identifiers, correct linkage and a single terminal node.
package pipeline
