package summarizer

const densityTemplate = `
Article: {text}

You will generate increasingly concise, entity-dense summaries of the above article.

Repeat the following 2 steps 5 times.

Step 1. Identify 1-3 informative entities (";" delimited) from the article which are missing from the previously generated summary.

Step 2. Write a new, denser summary of identical length which covers every entity and detail from the previous summary plus the missing entities.

A missing entity is:

- relevant to the main story,

- specific yet concise (5 words or fewer),

- novel (not in the previous summary),

- faithful (present in the article),

- anywhere (can be located anywhere in the article).

Guidelines:

- The first summary should be long ({n_sentences}, ~{n_words} words) yet highly non-specific, containing little information beyond the entities marked as missing. Use overly verbose language and fillers (e.g., "this article discusses") to reach ~{n_words} words.

- Make every word count: rewrite the previous summary to improve flow and make space for additional entities.

- Make space with fusion, compression, and removal of uninformative phrases like "the article discusses".

- The summaries should become highly dense and concise yet self-contained, i.e., easily understood without the article.

- Missing entities can appear anywhere in the new summary.

- Never drop entities from the previous summary. If space cannot be made, add fewer new entities.

Remember, use the exact same number of words for each summary. Answer in complete and valid JSON. The JSON should be a correctly formatted list (length 5) of dictionaries whose keys are "Missing_Entities" and "Denser_Summary".
`

const joinTemplate = `
Article chunk summaries: {text}

You will generate an increasingly coherent complete summary of an article by joining the above article chunk summaries.

Repeat the following 3 steps 5 times.

Step 1. Identify 1-3 informative entities (";" delimited) from the chunk summaries which are missing from the previously generated summary.

Step 2. Write a new summary of identical length which covers every entity and detail from the previous summary plus the missing entities.

Step 3. Generate a title for the summary you have just written.

A missing entity is:

- relevant to the provided chunk summaries of the article,

- specific yet concise (5 words or fewer),

- novel (not in the previous summary),

- faithful (present in the chunk summaries),

- anywhere (can be located anywhere in the chunk summaries).

Guidelines:

- The first summary should be long ({n_sentences}, ~{n_words} words) yet highly non-specific, containing little information beyond the entities marked as missing. Use overly verbose language and fillers (e.g., "this article discusses") to reach ~{n_words} words.

- Make every word count: rewrite the previous summary to improve flow and make space for additional entities.

- The summaries should become highly dense and concise yet self-contained, i.e., easily understood without the original article.

- Missing entities can appear anywhere in the new summary.

- Never drop entities from the previous summary. If space cannot be made, add fewer new entities.

Remember, use the exact same number of words for each summary. Answer in complete and valid JSON. The JSON should be a correctly formatted list (length 5) of dictionaries whose keys are "Missing_Entities", "Denser_Summary" and "Title".
`
