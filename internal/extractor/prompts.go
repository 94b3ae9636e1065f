package extractor

const systemPrompt = `You are a helpful assistant.`

// Fields are requested in this order and with these prefixes; the model's
// answer is shown to the planner verbatim.
const extractionUserPrompt = `You are an expert wedding-planning assistant. Analyse the chat below and extract the FINAL confirmed details.
Use EMOJIS. If a detail is missing, write "❓ Pending".
Combine addresses and times on the same line.

CHAT:
---
%s
---

RESPONSE FORMAT:
📅 **Wedding date:**
⛪ **Ceremony (place and time):**
🎉 **Reception (place and time):**
🤵 **Groom's house (address and time):**
👰 **Bride's house (address and time):**
📦 **Package booked:**
👥 **Guests:**`
