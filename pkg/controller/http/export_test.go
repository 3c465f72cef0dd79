package http

var VerifyEventSignature = verifyEventSignature
