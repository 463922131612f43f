// Package genai is the boundary to the external text-generation
// collaborator.
//
// Two operations exist: free-text generation for interview turns and
// structured evaluation of a finished transcript. Both are failure-proof
// by contract — a network or service error is downgraded to a fixed
// fallback value and never surfaces to the caller as an error.
//
// Control signals from the collaborator arrive as sentinel-prefixed
// replies (BAN_USER, END_SESSION). This is inherently a soft contract
// with a free-text service: ClassifyReply parses the sentinels
// defensively as prefixes and may still misfire if the model embeds a
// sentinel mid-sentence in a legitimate answer.
package genai
