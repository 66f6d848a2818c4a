// Package line adapts the LINE Messaging API SDK to what the bot needs.
//
// Webhook requests are authenticated and decoded by the SDK's webhook
// package and then reduced to the small Event type the bot switches on.
// Client wraps the SDK's messaging and blob APIs for the two calls the bot
// makes: downloading the content of an image message and replying to an
// event with text messages.
//
// # Limits
//
// A reply carries at most MaxReplyMessages messages of at most MaxTextRunes
// characters each. Reply splits long text on line boundaries and drops
// whatever does not fit.
package line
