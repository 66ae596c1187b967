// Package votecasting implements the vote casting protocol inside the
// civic-participation context.
//
// The module owns voter authentication against passphrase-encrypted key
// material, liveness-proof recording, votation window validation,
// duplicate-vote detection, and persistence of vote records carrying an
// encrypted voter-linkage token. It keeps business rules in
// application/domain layers and isolates infrastructure concerns behind
// ports and adapters.
package votecasting
