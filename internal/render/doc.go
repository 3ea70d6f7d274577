package render

// Package render turns the two deck source documents into HTML fragments.
//
// It is a deliberate markdown subset, not a markdown engine: the table
// extractor and the risks renderer each make one best-effort pass over
// two known input shapes and degrade to a weaker but valid rendering
// instead of failing. Full-markdown content (speaker notes) is handled
// elsewhere with goldmark.
