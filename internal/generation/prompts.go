package generation

import (
	"fmt"
	"strings"
)

// All prompts are German. The consultant persona addresses non-technical
// customers, so the templates forbid security jargon in user-facing output.

const questionPromptTemplate = `Du bist ein freundlicher Berater, der auf Deutsch mit Kunden kommuniziert. Alle deine Antworten MÜSSEN auf Deutsch sein.

Deine Aufgabe ist es, Fragen zu stellen, die einem nicht-technischen Kunden helfen, über die Prozesse und den Kontext seines Unternehmens zu sprechen. Der Kunde hat KEIN Fachwissen über Informationssicherheit und kennt Begriffe wie "Threat Awareness" oder "Bedrohungsbewusstsein" nicht.

Formuliere eine freundliche, leicht verständliche Frage auf Deutsch, die sich auf konkrete Alltagssituationen bezieht, statt auf abstrakte Sicherheitskonzepte.
Das Thema gehört zum Bereich: %s
Die Beschreibung dieses Bereichs ist: %s

Berücksichtige dabei:
- Organisation: %s
- Zielgruppe: %s
- Relevanter Kontext: %s

WICHTIG: Vermeide komplizierte Fachbegriffe. Ersetze sie durch konkrete, alltagsnahe Begriffe:
- Statt "Threat Awareness / Bedrohungsbewusstsein" frage nach "typischen Situationen im Arbeitsalltag, die riskant sein könnten"
- Statt "Threat Identification" frage nach "Anzeichen, dass etwas nicht stimmt" oder "verdächtigen Dingen"
- Statt "Threat Impact Assessment" frage nach "Auswirkungen wenn etwas schiefgeht"
- Statt "Tactic Choice" frage nach "üblichen Vorgehensweisen" oder "Handlungsmöglichkeiten"
- Statt "Tactic Justification" frage nach "Gründen für bestimmte Vorgehensweisen"
- Statt "Tactic Mastery" frage nach "konkreten Schritten im Alltag"
- Statt "Tactic Check & Follow-Up" frage nach "was nach einem Vorfall passiert"

Die Frage sollte:
1. Sich auf die Geschäftsprozesse, tägliche Abläufe oder den Arbeitskontext des Kunden beziehen
2. In einfacher, nicht-technischer Sprache formuliert sein
3. Offen sein und ausführliche Antworten fördern
4. KEINEN Fachjargon aus der Informationssicherheit enthalten
5. So formuliert sein, dass der Kunde über seine eigenen Erfahrungen sprechen kann, ohne Sicherheitswissen zu benötigen

Gib nur die Frage zurück, keine Erklärungen oder Einleitungen.

WICHTIG: Deine Antwort muss auf Deutsch sein! Verwende NICHT die englischen Fachbegriffe im Abschnittstitel.`

const contentPromptTemplate = `Erstelle den Inhalt für den Abschnitt "%s" eines E-Learning-Kurses zur Informationssicherheit.

WICHTIG: Der gesamte Inhalt MUSS auf Deutsch sein! Verwende durchgehend die deutsche Sprache.

Die Antwort des Kunden auf deine Frage nach den Unternehmensprozessen war:
"%s"

Basierend auf dieser Antwort sollst du nun relevante Informationssicherheitsinhalte generieren, die:
1. Speziell auf die beschriebenen Prozesse, Herausforderungen und den Unternehmenskontext zugeschnitten sind
2. Praktische Sicherheitsmaßnahmen und bewährte Verfahren enthalten, die für diese Prozesse relevant sind
3. Klare Anweisungen und Empfehlungen bieten, die die Zielgruppe verstehen und umsetzen kann
4. Technische Konzepte auf eine zugängliche, nicht einschüchternde Weise erklären

Kontext und weitere Informationen:
- Abschnittsbeschreibung: %s
- Organisation: %s
- Zielgruppe: %s
- Dauer: %s
- Relevante Informationen aus unserer Wissensdatenbank: %s

Gib nur den fertigen Inhalt zurück, keine zusätzlichen Erklärungen.

WICHTIG: Deine Antwort muss vollständig auf Deutsch sein!`

const hallucinationCheckTemplate = `Überprüfe den folgenden Inhalt für einen E-Learning-Kurs zur Informationssicherheit auf mögliche Ungenauigkeiten oder Halluzinationen.

Zu prüfender Text:
%s

Kontext aus der Kundenantwort:
%s

Verfügbare Fachinformationen:
%s

Bitte identifiziere:
1. Aussagen über Informationssicherheit, die nicht durch die verfügbaren Fachinformationen gestützt werden
2. Empfehlungen oder Maßnahmen, die für den beschriebenen Unternehmenskontext ungeeignet sein könnten
3. Technische Begriffe oder Konzepte, die falsch verwendet wurden
4. Widersprüche zu bewährten Sicherheitspraktiken
5. Unzutreffende Behauptungen über Bedrohungen oder deren Auswirkungen

Für jede identifizierte Problemstelle:
- Zitiere die betreffende Textpassage
- Erkläre, warum dies problematisch ist
- Schlage eine fachlich korrekte Alternative vor

Falls keine Probleme gefunden wurden, antworte mit "KEINE_PROBLEME".`

const keyInfoExtractionTemplate = `Analysiere die folgende Antwort eines Kunden, der über die Prozesse und den Kontext seines Unternehmens spricht.
Der Kunde hat auf eine Frage zu "%s" geantwortet, für die wir passende Informationssicherheitsinhalte erstellen wollen.

Kundenantwort:
"%s"

Extrahiere:
1. Die wichtigsten Geschäftsprozesse, Arbeitsabläufe oder Systeme, die erwähnt werden
2. Potenzielle Informationssicherheits-Schwachstellen oder Risiken, die mit diesen Prozessen verbunden sein könnten
3. Besondere Anforderungen oder Einschränkungen, die berücksichtigt werden sollten
4. Branchenspezifische Aspekte, die relevant sein könnten
5. Informationswerte oder schützenswerte Daten, die im Kontext wichtig sind

Gib nur eine Liste von 5-8 Schlüsselbegriffen oder kurzen Phrasen zurück, die für die Suche nach relevanten Informationssicherheitsinhalten verwendet werden können. Schreibe keine Einleitungen oder Erklärungen.`

const correctionPromptTemplate = `Überarbeite den folgenden E-Learning-Inhalt basierend auf dem Feedback:

Originaltext:
%s

Feedback zur Überarbeitung:
%s

Erstelle eine verbesserte Version des Textes, die die identifizierten Probleme behebt, fachlich korrekt ist und trotzdem verständlich und ansprechend bleibt.
Achte darauf, dass der Text weiterhin didaktisch gut aufbereitet ist und alle wichtigen Informationen enthält.

Gib nur den überarbeiteten Text zurück, keine zusätzlichen Erklärungen.`

// maxQuestionContextLen bounds the retrieval context embedded in question
// prompts so the instruction part is never crowded out.
const maxQuestionContextLen = 1000

func questionPrompt(sectionTitle, sectionDescription, contextText, organization, audience string) string {
	if runes := []rune(contextText); len(runes) > maxQuestionContextLen {
		contextText = string(runes[:maxQuestionContextLen]) + "..."
	}
	return fmt.Sprintf(questionPromptTemplate,
		sectionTitle, sectionDescription, organization, audience, contextText)
}

func contentPrompt(sectionTitle, sectionDescription, userResponse, organization, audience, duration, contextText string) string {
	return fmt.Sprintf(contentPromptTemplate,
		sectionTitle, userResponse, sectionDescription, organization, audience, duration, contextText)
}

func hallucinationCheckPrompt(content, userInput, contextText string) string {
	return fmt.Sprintf(hallucinationCheckTemplate, content, userInput, contextText)
}

func keyInfoExtractionPrompt(sectionType, userResponse string) string {
	return fmt.Sprintf(keyInfoExtractionTemplate, sectionType, userResponse)
}

func correctionPrompt(originalContent, feedback string) string {
	return fmt.Sprintf(correctionPromptTemplate,
		strings.TrimSpace(originalContent), strings.TrimSpace(feedback))
}
