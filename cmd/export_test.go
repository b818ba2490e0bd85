package cmd

var SkipUnlessReady = skipUnlessReady
